package smf

// Message is a compact fixed-size record for both real MIDI channel
// messages and the synthetic meta-markers this decoder emits for tempo
// changes, loop points, and end-of-track. Channel values 0-15 identify an
// ordinary channel message; the reserved sentinels 252-255 mark a
// meta-message, with Command/Data1/Data2 repurposed to carry its payload.
type Message struct {
	Channel uint8
	Command uint8
	Data1   uint8
	Data2   uint8
}

// Meta-message sentinels, stored in Message.Channel. Values below
// channelMetaBase are ordinary 0-15 MIDI channels.
const (
	channelMetaBase uint8 = 252

	// MessageNormal mirrors the reference decoder's NORMAL = 0 sentinel
	// for an ordinary channel message. This package classifies messages
	// by range-checking Channel against channelMetaBase rather than by
	// switching on a kind tag, so MessageNormal is never read by any
	// decode path; it exists for callers that want to tag a Message's
	// kind explicitly (e.g. when building one by hand in a test).
	MessageNormal uint8 = 0

	ChannelTempoChange uint8 = 252
	ChannelLoopStart   uint8 = 253
	ChannelLoopEnd     uint8 = 254
	ChannelEndOfTrack  uint8 = 255
)

// IsMeta reports whether m is a synthetic meta-marker rather than an
// ordinary channel message.
func (m Message) IsMeta() bool {
	return m.Channel >= channelMetaBase
}

// newChannelMessage1 builds a channel message carrying a single data byte
// (program change or channel pressure).
func newChannelMessage1(status, data1 byte) Message {
	return Message{
		Channel: status & 0x0f,
		Command: status & 0xf0,
		Data1:   data1,
	}
}

// newChannelMessage2 builds a two-data-byte channel message, applying the
// loop dialect's control-change rewriting when applicable.
func newChannelMessage2(status, data1, data2 byte, dialect LoopDialect) Message {
	channel := status & 0x0f
	command := status & 0xf0

	if command == 0xb0 {
		switch dialect.kind {
		case loopKindRpgMaker:
			if data1 == 111 {
				return loopStartMessage()
			}
		case loopKindIncredibleMachine:
			if data1 == 110 {
				return loopStartMessage()
			}
			if data1 == 111 {
				return loopEndMessage()
			}
		case loopKindFinalFantasy:
			if data1 == 116 {
				return loopStartMessage()
			}
			if data1 == 117 {
				return loopEndMessage()
			}
		}
	}

	return Message{Channel: channel, Command: command, Data1: data1, Data2: data2}
}

// newTempoChange packs microseconds-per-quarter-note (a 24-bit value) into
// Command/Data1/Data2, matching the reference encoding.
func newTempoChange(uspq int32) Message {
	return Message{
		Channel: ChannelTempoChange,
		Command: uint8(uspq >> 16),
		Data1:   uint8(uspq >> 8),
		Data2:   uint8(uspq),
	}
}

func loopStartMessage() Message { return Message{Channel: ChannelLoopStart} }
func loopEndMessage() Message   { return Message{Channel: ChannelLoopEnd} }
func endOfTrackMessage() Message { return Message{Channel: ChannelEndOfTrack} }

// Tempo decodes the microseconds-per-quarter-note payload of a
// TEMPO_CHANGE message and returns the corresponding BPM.
func (m Message) Tempo() float64 {
	uspq := (int32(m.Command) << 16) | (int32(m.Data1) << 8) | int32(m.Data2)
	if uspq == 0 {
		return defaultTempoBPM
	}
	return 60_000_000.0 / float64(uspq)
}

const defaultTempoBPM = 120.0
