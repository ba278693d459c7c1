// Package flight wires the flight core pipeline.
//
// Three tasks run concurrently with the central loop:
//
//   - Acquisition calibrates the IMU once, then samples, estimates attitude
//     and publishes Sensors and EstimatedState messages.
//   - Ingestion reads the ground link and queues decoded commands.
//   - Status shows the link state on the indicator and samples the battery.
//
// The central loop drains the outbound queues onto the link, dispatches
// queued commands and refreshes the link flag. Tasks only share bounded
// single-producer/single-consumer queues and advisory flags, and no
// queue operation blocks.
package flight
