package render

import (
	"context"

	"github.com/sinshu/go-meltysynth/meltysynth"
	"github.com/zurustar/smfrender/pkg/smf"
)

// sequencer drives a single synthesizer through one TimedTrack, rendering
// fixed-length stereo blocks between consecutive message times. It binds
// the spec's abstract "Sequencer::new/play/render" interface directly to
// a go-meltysynth *meltysynth.Synthesizer.
type sequencer struct {
	synth      *meltysynth.Synthesizer
	sampleRate int32
	track      smf.TimedTrack
	loop       bool
}

func newSequencer(synth *meltysynth.Synthesizer, sampleRate int32) *sequencer {
	return &sequencer{synth: synth, sampleRate: sampleRate}
}

// play seeds the sequencer with the track to render; render may be called
// any number of times afterward (matching Sequencer::play/render being
// separate steps in the consumed interface), though this package only
// ever calls render once per track.
func (s *sequencer) play(track smf.TimedTrack, loop bool) {
	s.track = track
	s.loop = loop
}

// render fills left and right, which must have equal length, by advancing
// through s.track's messages in time order and rendering the synthesizer
// in blocks bounded by the next due message. LOOP_START/LOOP_END are
// markers only: they carry no channel data, so they never reach
// ProcessMidiMessage. s.loop is carried for callers that re-drive the same
// sequencer across repeated playback passes; a single render call always
// produces one straight pass over the track regardless of its value,
// matching the offline, non-real-time scope of this renderer.
//
// ctx is checked once per block, not once per sample: a sibling track's
// failure cancels the errgroup's context, and this track stops at the
// next block boundary instead of always running to completion.
func (s *sequencer) render(ctx context.Context, left, right []float32) error {
	n := len(left)
	if n == 0 {
		return nil
	}

	msgIndex := 0
	pos := 0

	sampleTime := func(t float64) int {
		return int(t * float64(s.sampleRate))
	}

	for pos < n {
		if err := ctx.Err(); err != nil {
			return err
		}

		for msgIndex < len(s.track.Messages) && sampleTime(s.track.Times[msgIndex]) <= pos {
			m := s.track.Messages[msgIndex]
			if !m.IsMeta() {
				s.synth.ProcessMidiMessage(int32(m.Channel), int32(m.Command), int32(m.Data1), int32(m.Data2))
			}
			msgIndex++
		}

		blockEnd := n
		if msgIndex < len(s.track.Messages) {
			if next := sampleTime(s.track.Times[msgIndex]); next > pos && next < blockEnd {
				blockEnd = next
			}
		}
		if blockEnd <= pos {
			blockEnd = pos + 1
		}

		s.synth.Render(left[pos:blockEnd], right[pos:blockEnd])
		pos = blockEnd
	}

	return nil
}
