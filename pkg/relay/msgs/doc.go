// Package msgs defines the protobuf messages relayed over MQTT.
//
// Every wire message has a protobuf counterpart. A message is carried in a
// Typed envelope whose TypeId tells the receiver how to decode it.
package msgs
