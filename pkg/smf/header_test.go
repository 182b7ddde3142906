package smf

import (
	"bytes"
	"errors"
	"testing"
)

func validHeaderBytes(format int16, trackCount uint16, resolution int16) []byte {
	var buf bytes.Buffer
	buf.WriteString("MThd")
	buf.Write([]byte{0, 0, 0, 6})
	buf.Write([]byte{byte(format >> 8), byte(format)})
	buf.Write([]byte{byte(trackCount >> 8), byte(trackCount)})
	buf.Write([]byte{byte(resolution >> 8), byte(resolution)})
	return buf.Bytes()
}

func TestReadHeader_ValidFormat1(t *testing.T) {
	h, err := ReadHeader(bytes.NewReader(validHeaderBytes(1, 2, 480)))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Format != 1 || h.TrackCount != 2 || h.Resolution != 480 {
		t.Fatalf("got %+v, want format=1 trackCount=2 resolution=480", h)
	}
}

func TestReadHeader_RejectsBadFormat(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(validHeaderBytes(2, 1, 480)))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadHeader_RejectsSMPTEResolution(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(validHeaderBytes(1, 1, -25)))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadHeader_RejectsWrongTag(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	buf.Write([]byte{0, 0, 0, 6, 0, 1, 0, 1, 1, 224})
	_, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	var chunkErr *ChunkTypeError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("got %v, want *ChunkTypeError", err)
	}
}

func TestTrackAddresses_FormatZeroSingleTrackIsUnambiguous(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(validHeaderBytes(0, 1, 96))
	buf.WriteString("MTrk")
	buf.Write([]byte{0, 0, 0, 4})
	buf.Write([]byte{0x00, 0xff, 0x2f, 0x00})

	header, addrs, err := TrackAddresses(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("TrackAddresses: %v", err)
	}
	if header.Format != 0 || len(addrs) != 1 {
		t.Fatalf("got format=%d len(addrs)=%d, want format=0 len=1", header.Format, len(addrs))
	}
	if addrs[0].Offset != 0 || addrs[0].Size != 12 {
		t.Fatalf("got %+v, want offset=0 size=12", addrs[0])
	}
}

func TestTrackAddresses_MultipleTracks(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(validHeaderBytes(1, 2, 96))
	buf.WriteString("MTrk")
	buf.Write([]byte{0, 0, 0, 4})
	buf.Write([]byte{0x00, 0xff, 0x2f, 0x00})
	buf.WriteString("MTrk")
	buf.Write([]byte{0, 0, 0, 4})
	buf.Write([]byte{0x00, 0xff, 0x2f, 0x00})

	_, addrs, err := TrackAddresses(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("TrackAddresses: %v", err)
	}
	if len(addrs) != 2 {
		t.Fatalf("got %d addresses, want 2", len(addrs))
	}
	if addrs[0].Offset != 0 || addrs[1].Offset != 12 {
		t.Fatalf("got offsets %d,%d, want 0,12", addrs[0].Offset, addrs[1].Offset)
	}
}
