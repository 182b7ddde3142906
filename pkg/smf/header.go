package smf

import (
	"fmt"
	"io"
)

// Header is the decoded MThd chunk. Resolution is ticks-per-quarter-note
// (metrical division); SMPTE-style division (division's top bit set) is
// rejected, matching spec's PPQ-only scope.
type Header struct {
	Format     int16
	TrackCount uint16
	Resolution int16
}

// readHeader reads the MThd tag and body. format must be 0 or 1; resolution
// must be positive (a negative top byte indicates SMPTE division).
func readHeader(r *reader) (Header, error) {
	tag, err := r.readFourCC()
	if err != nil {
		return Header{}, err
	}
	if tag != tagMThd {
		return Header{}, chunkTypeErr(tagMThd, tag, 0)
	}

	size, err := r.readI32BE()
	if err != nil {
		return Header{}, err
	}
	if size != 6 {
		return Header{}, fmt.Errorf("%w: MThd size %d, expected 6", ErrInvalidChunkData, size)
	}

	format, err := r.readI16BE()
	if err != nil {
		return Header{}, err
	}
	if format != 0 && format != 1 {
		return Header{}, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}

	trackCount, err := r.readU16BE()
	if err != nil {
		return Header{}, err
	}

	resolution, err := r.readI16BE()
	if err != nil {
		return Header{}, err
	}
	if resolution <= 0 {
		return Header{}, fmt.Errorf("%w: SMPTE time division is not supported", ErrUnsupportedFormat)
	}

	return Header{Format: format, TrackCount: trackCount, Resolution: resolution}, nil
}

// ReadHeader parses only the MThd chunk from r, leaving the stream
// positioned right after it. It is exported for diagnostic tools that
// need the header without paying for a full parse.
func ReadHeader(r io.Reader) (Header, error) {
	return readHeader(newReader(r))
}

// TrackAddress is one entry of the track index built by TrackAddresses:
// Offset is measured from the byte immediately after the header, and Size
// includes the 8-byte "MTrk"+length chunk header.
type TrackAddress struct {
	Offset int64
	Size   int64
}

// trackAddresses scans sequentially past ntracks MTrk chunks without
// decoding their events, recording each one's offset (relative to the
// first track chunk) and total size (header included). It fails with
// ErrInvalidChunkType if any chunk tag encountered is not "MTrk".
func trackAddresses(r *reader, ntracks uint16) ([]TrackAddress, error) {
	result := make([]TrackAddress, 0, ntracks)

	var index int64
	for i := uint16(0); i < ntracks; i++ {
		tag, err := r.readFourCC()
		if err != nil {
			return nil, err
		}
		if tag != tagMTrk {
			return nil, chunkTypeErr(tagMTrk, tag, index)
		}
		size, err := r.readI32BE()
		if err != nil {
			return nil, err
		}
		if err := r.discard(size); err != nil {
			return nil, err
		}

		total := int64(size) + 8
		result = append(result, TrackAddress{Offset: index, Size: total})
		index += total
	}

	return result, nil
}

// TrackAddresses parses the MThd chunk of r and then scans the declared
// number of MTrk chunks, returning the header and the track index without
// decoding any events. It is exported for diagnostic tools.
func TrackAddresses(r io.Reader) (Header, []TrackAddress, error) {
	br := newReader(r)
	header, err := readHeader(br)
	if err != nil {
		return Header{}, nil, err
	}
	addrs, err := trackAddresses(br, header.TrackCount)
	if err != nil {
		return Header{}, nil, err
	}
	return header, addrs, nil
}
