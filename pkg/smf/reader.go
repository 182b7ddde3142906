package smf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FourCC is a 4-byte chunk tag such as "MThd" or "MTrk".
type FourCC [4]byte

func (f FourCC) String() string {
	return string(f[:])
}

// fourCC builds a FourCC from a string literal; panics on the wrong length,
// which only happens if this package is edited incorrectly.
func fourCC(s string) FourCC {
	if len(s) != 4 {
		panic("smf: fourCC requires a 4-byte tag")
	}
	var f FourCC
	copy(f[:], s)
	return f
}

var (
	tagMThd = fourCC("MThd")
	tagMTrk = fourCC("MTrk")
)

// reader wraps an io.Reader with the big-endian scalar and variable-length
// decoding primitives an SMF stream needs. Short reads (io.EOF or
// io.ErrUnexpectedEOF from the source) are reported as io.ErrUnexpectedEOF,
// matching the reference decoder's UnexpectedEof taxonomy entry; any other
// error from the source is returned unchanged.
type reader struct {
	r io.Reader
}

func newReader(r io.Reader) *reader {
	return &reader{r: r}
}

func (r *reader) readFull(buf []byte) error {
	_, err := io.ReadFull(r.r, buf)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func (r *reader) readFourCC() (FourCC, error) {
	var buf [4]byte
	if err := r.readFull(buf[:]); err != nil {
		return FourCC{}, err
	}
	return FourCC(buf), nil
}

func (r *reader) readU8() (byte, error) {
	var buf [1]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (r *reader) readU16BE() (uint16, error) {
	var buf [2]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (r *reader) readI16BE() (int16, error) {
	v, err := r.readU16BE()
	return int16(v), err
}

func (r *reader) readI32BE() (int32, error) {
	var buf [4]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

// readVarLen decodes an SMF variable-length quantity: 7 bits per byte, MSB
// set on every byte but the last. No implicit length cap is imposed beyond
// the 4-byte ceiling a well-formed SMF value can ever need; a 4th byte
// that still has its continuation bit set is rejected as malformed input.
func (r *reader) readVarLen() (int32, error) {
	var value int32
	for i := 0; i < 4; i++ {
		b, err := r.readU8()
		if err != nil {
			return 0, err
		}
		value = (value << 7) | int32(b&0x7f)
		if b&0x80 == 0 {
			return value, nil
		}
		if i == 3 {
			return 0, fmt.Errorf("smf: variable-length quantity longer than 4 bytes")
		}
	}
	return value, nil
}

func (r *reader) discard(n int32) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r.r, int64(n))
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// countingSource counts bytes pulled through it; countingReader uses one as
// its underlying io.Reader so it can track consumption without duplicating
// every decode primitive on reader.
type countingSource struct {
	base  io.Reader
	count int64
}

func (c *countingSource) Read(buf []byte) (int, error) {
	n, err := c.base.Read(buf)
	c.count += int64(n)
	return n, err
}

// countingReader wraps a reader and tracks bytes consumed, so a track
// parser bounded to a chunk's declared size can tell when it has reached
// the end even though readVarLen has no length budget of its own.
type countingReader struct {
	*reader
	src *countingSource
}

func newCountingReader(base io.Reader) *countingReader {
	src := &countingSource{base: base}
	return &countingReader{reader: newReader(src), src: src}
}

func (c *countingReader) bytesRead() int64 {
	return c.src.count
}
