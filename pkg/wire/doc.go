// Package wire defines the messages exchanged between the flight core and
// the ground station and their byte framing.
//
// A message is serialized as a one byte tag followed by the fields of that
// variant in declared order. Floats are little-endian IEEE-754 single
// precision, integers are fixed width little-endian and byte strings carry a
// uvarint length prefix. The payload is then COBS stuffed and terminated
// with 0x00, so a receiver can find frame boundaries anywhere in a stream
// and resynchronize after garbage.
package wire
