// Package header implements the length-prefixed alternate framing.
//
// A frame is laid out as
//
//	[0x7E][length][payload ...][crc hi][crc lo]
//
// where payload is the tagged binary form of a wire.Message. The two CRC
// bytes are reserved: they are written as 0xFF 0xFF and not checked on
// receive, so this framing detects no bit errors. Peers needing integrity
// should use the COBS framing of package wire.
//
// Bytes are consumed one at a time by Parser, which stores the payload in a
// fixed size Ring and decodes it in place once complete.
package header
