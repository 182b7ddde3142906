package smf

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Use errors.Is to test for these; wrapped errors
// carry the offending chunk tag or byte position via fmt.Errorf("%w").
var (
	// ErrUnsupportedFormat is returned when the MThd format field is not 0
	// or 1, or when no track in the file carries a tempo change.
	ErrUnsupportedFormat = errors.New("smf: unsupported format")

	// ErrInvalidChunkType is returned when a FourCC tag does not match the
	// chunk expected at that position ("MThd" or "MTrk").
	ErrInvalidChunkType = errors.New("smf: invalid chunk type")

	// ErrInvalidChunkData is returned when a chunk's declared size does not
	// match its expected structure (MThd body must be exactly 6 bytes).
	ErrInvalidChunkData = errors.New("smf: invalid chunk data")

	// ErrInvalidTempoValue is returned when a set-tempo meta event's length
	// is not 3.
	ErrInvalidTempoValue = errors.New("smf: invalid tempo value")
)

// ChunkTypeError reports a FourCC mismatch, naming both the chunk that was
// expected and the one actually found, along with the byte offset.
type ChunkTypeError struct {
	Expected FourCC
	Actual   FourCC
	At       int64
}

func (e *ChunkTypeError) Error() string {
	return fmt.Sprintf("smf: expected chunk %q at offset %d, found %q", e.Expected, e.At, e.Actual)
}

func (e *ChunkTypeError) Unwrap() error {
	return ErrInvalidChunkType
}

// chunkTypeErr builds a wrapped ChunkTypeError.
func chunkTypeErr(expected, actual FourCC, at int64) error {
	return &ChunkTypeError{Expected: expected, Actual: actual, At: at}
}
