package smf

import (
	"fmt"
	"io"
)

// RawEvent pairs a decoded Message with its absolute tick.
type RawEvent struct {
	Message Message
	Tick    int32
}

// RawTrack is the ordered event sequence produced by parsing one MTrk
// chunk. Ticks are non-decreasing; the last element is always exactly one
// END_OF_TRACK event.
type RawTrack struct {
	Events []RawEvent
}

// HasTempoChange reports whether the track contains at least one
// TEMPO_CHANGE event; FindTempoMap uses this to pick the tempo map.
func (t RawTrack) HasTempoChange() bool {
	for _, e := range t.Events {
		if e.Message.Channel == ChannelTempoChange {
			return true
		}
	}
	return false
}

// LastTick returns the tick of the final event, or 0 for an empty track.
func (t RawTrack) LastTick() int32 {
	if len(t.Events) == 0 {
		return 0
	}
	return t.Events[len(t.Events)-1].Tick
}

// readTrack consumes one MTrk chunk (the reader must be positioned at its
// "MTrk" tag) and decodes it into a RawTrack, honoring running status and
// the given loop dialect.
//
// The reference decoder this is ported from updates its running-status
// byte unconditionally at the end of every loop iteration, including when
// the iteration only consumed a running-status data byte — which
// corrupts the status for the next event. This implementation fixes that:
// the running-status byte is only replaced when a genuine status byte
// (0x80-0xEF) is read, matching the one-argument rule the reference's own
// tempo-scanning helper already uses.
func readTrack(r *reader, dialect LoopDialect) (RawTrack, error) {
	tag, err := r.readFourCC()
	if err != nil {
		return RawTrack{}, err
	}
	if tag != tagMTrk {
		return RawTrack{}, chunkTypeErr(tagMTrk, tag, 0)
	}

	size, err := r.readI32BE()
	if err != nil {
		return RawTrack{}, err
	}

	cr := newCountingReader(r.r)

	var events []RawEvent
	var tick int32
	var lastStatus byte

	for {
		delta, err := cr.readVarLen()
		if err != nil {
			return RawTrack{}, err
		}
		tick += delta

		b, err := cr.readU8()
		if err != nil {
			return RawTrack{}, err
		}

		if b&0x80 == 0 {
			command := lastStatus & 0xf0
			if command == 0xc0 || command == 0xd0 {
				events = append(events, RawEvent{Message: newChannelMessage1(lastStatus, b), Tick: tick})
			} else {
				data2, err := cr.readU8()
				if err != nil {
					return RawTrack{}, err
				}
				events = append(events, RawEvent{Message: newChannelMessage2(lastStatus, b, data2, dialect), Tick: tick})
			}
			continue
		}

		switch b {
		case 0xf0, 0xf7:
			if err := discardVarLenBlock(cr); err != nil {
				return RawTrack{}, err
			}
		case 0xff:
			metaType, err := cr.readU8()
			if err != nil {
				return RawTrack{}, err
			}
			switch metaType {
			case 0x2f:
				if _, err := cr.readU8(); err != nil {
					return RawTrack{}, err
				}
				events = append(events, RawEvent{Message: endOfTrackMessage(), Tick: tick})
				if remaining := int32(size) - int32(cr.bytesRead()); remaining > 0 {
					if err := cr.discard(remaining); err != nil {
						return RawTrack{}, err
					}
				}
				return RawTrack{Events: events}, nil
			case 0x51:
				uspq, err := readTempoPayload(cr)
				if err != nil {
					return RawTrack{}, err
				}
				events = append(events, RawEvent{Message: newTempoChange(uspq), Tick: tick})
			default:
				if err := discardVarLenBlock(cr); err != nil {
					return RawTrack{}, err
				}
			}
		default:
			command := b & 0xf0
			if command == 0xc0 || command == 0xd0 {
				data1, err := cr.readU8()
				if err != nil {
					return RawTrack{}, err
				}
				events = append(events, RawEvent{Message: newChannelMessage1(b, data1), Tick: tick})
			} else {
				data1, err := cr.readU8()
				if err != nil {
					return RawTrack{}, err
				}
				data2, err := cr.readU8()
				if err != nil {
					return RawTrack{}, err
				}
				events = append(events, RawEvent{Message: newChannelMessage2(b, data1, data2, dialect), Tick: tick})
			}
			lastStatus = b
		}
	}
}

// discardVarLenBlock reads a varlen size and skips that many bytes; used
// for SysEx payloads and meta events this decoder does not interpret.
func discardVarLenBlock(cr *countingReader) error {
	size, err := cr.readVarLen()
	if err != nil {
		return err
	}
	return cr.discard(size)
}

// readTempoPayload reads the set-tempo meta event's varlen length (which
// must be 3) and its 24-bit microseconds-per-quarter-note payload.
func readTempoPayload(cr *countingReader) (int32, error) {
	size, err := cr.readVarLen()
	if err != nil {
		return 0, err
	}
	if size != 3 {
		return 0, fmt.Errorf("%w: length %d", ErrInvalidTempoValue, size)
	}
	b1, err := cr.readU8()
	if err != nil {
		return 0, err
	}
	b2, err := cr.readU8()
	if err != nil {
		return 0, err
	}
	b3, err := cr.readU8()
	if err != nil {
		return 0, err
	}
	return (int32(b1) << 16) | (int32(b2) << 8) | int32(b3), nil
}

// ReadTrack parses the MTrk chunk at the current position of r using the
// given loop dialect. Exported for callers (such as the parallel renderer)
// that hold their own reader over a track's byte slice.
func ReadTrack(r io.Reader, dialect LoopDialect) (RawTrack, error) {
	return readTrack(newReader(r), dialect)
}
