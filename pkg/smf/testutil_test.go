package smf

import (
	"bytes"
	"encoding/binary"
)

// encodeVarLen writes v as an SMF variable-length quantity.
func encodeVarLen(v int32) []byte {
	buf := []byte{byte(v & 0x7f)}
	v >>= 7
	for v > 0 {
		buf = append(buf, byte(v&0x7f)|0x80)
		v >>= 7
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}

// wrapMTrk prefixes body with an "MTrk" chunk header carrying its length.
func wrapMTrk(body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("MTrk")
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(body)))
	buf.Write(size[:])
	buf.Write(body)
	return buf.Bytes()
}

// noteOnEvent is a single generative test event: a note-on at a small
// non-negative tick delta, on a channel 0-15, with a velocity 1-127 (0 would
// be a note-off in disguise, which this helper does not model).
type noteOnEvent struct {
	deltaTick int32
	channel   int32
	note      int32
	velocity  int32
}

// encodeNoteOnTrack builds a complete MTrk chunk body from a list of
// note-on events followed by an end-of-track meta event, using an explicit
// status byte on every event (no running status).
func encodeNoteOnTrack(events []noteOnEvent) []byte {
	var body bytes.Buffer
	for _, e := range events {
		body.Write(encodeVarLen(e.deltaTick))
		body.WriteByte(byte(0x90 | (e.channel & 0x0f)))
		body.WriteByte(byte(e.note & 0x7f))
		body.WriteByte(byte(e.velocity & 0x7f))
	}
	body.Write(encodeVarLen(0))
	body.WriteByte(0xff)
	body.WriteByte(0x2f)
	body.WriteByte(0x00)
	return body.Bytes()
}
