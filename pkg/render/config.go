// Package render implements the parallel, multi-track offline renderer:
// it discovers track chunk offsets in a Standard MIDI File, spawns one
// go-meltysynth synthesizer per track, renders every track concurrently
// into its own stereo buffer, and mixes the results into a shared master
// pair while exposing live progress.
package render

import (
	"github.com/sinshu/go-meltysynth/meltysynth"
	"github.com/zurustar/smfrender/pkg/smf"
)

// Config bundles the parameters a Renderer needs beyond the SMF path
// itself. SoundFont and Settings are shared read-only across every
// per-track synthesizer; nothing in this package ever mutates them.
type Config struct {
	// SoundFont is the shared-immutable instrument bank every per-track
	// synthesizer is constructed from.
	SoundFont *meltysynth.SoundFont

	// Settings configures each per-track synthesizer (sample rate,
	// maximum polyphony, reverb/chorus). The same *Settings value is
	// reused to construct every synthesizer; go-meltysynth does not
	// mutate it.
	Settings *meltysynth.SynthesizerSettings

	// Dialect selects the loop-extension convention applied while
	// parsing each track. Defaults to smf.NoLoop() if left zero-valued.
	Dialect smf.LoopDialect

	// Loop is passed through to each track's sequencer. It does not
	// change what Render produces: every track is rendered once, straight
	// through, whether Loop is true or false.
	Loop bool
}

func (c Config) sampleRate() int32 {
	if c.Settings == nil {
		return 0
	}
	return c.Settings.SampleRate
}
