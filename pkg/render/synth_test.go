package render

import (
	"context"
	"os"
	"testing"

	"github.com/sinshu/go-meltysynth/meltysynth"
	"github.com/zurustar/smfrender/pkg/smf"
)

// findTestSoundFont looks for the GeneralUser-GS.sf2 fixture at a few
// candidate depths relative to this package, the same search the teacher's
// audio tests use, and returns "" if none is present.
func findTestSoundFont(t *testing.T) string {
	t.Helper()

	paths := []string{
		"../../GeneralUser-GS.sf2",
		"../GeneralUser-GS.sf2",
		"GeneralUser-GS.sf2",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func newTestSequencer(t *testing.T) *sequencer {
	t.Helper()

	sfPath := findTestSoundFont(t)
	if sfPath == "" {
		t.Skip("SoundFont file not found, skipping test")
	}

	f, err := os.Open(sfPath)
	if err != nil {
		t.Fatalf("opening soundfont: %v", err)
	}
	defer f.Close()

	sf, err := meltysynth.NewSoundFont(f)
	if err != nil {
		t.Fatalf("parsing soundfont: %v", err)
	}

	settings := meltysynth.NewSynthesizerSettings(44100)
	synth, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		t.Fatalf("constructing synthesizer: %v", err)
	}

	return newSequencer(synth, 44100)
}

func TestSequencerRender_EmptyBlocksReturnImmediately(t *testing.T) {
	seq := newTestSequencer(t)
	seq.play(smf.TimedTrack{}, false)

	if err := seq.render(context.Background(), nil, nil); err != nil {
		t.Fatalf("render with zero-length buffers: %v", err)
	}
}

// A context cancelled before render begins stops the very first block: no
// samples are produced into a buffer long enough to need a second block.
func TestSequencerRender_StopsOnAlreadyCancelledContext(t *testing.T) {
	seq := newTestSequencer(t)
	seq.play(smf.TimedTrack{Times: []float64{0}, Messages: []smf.Message{{}}}, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	left := make([]float32, 4410)
	right := make([]float32, 4410)
	err := seq.render(ctx, left, right)
	if err == nil {
		t.Fatalf("expected context.Canceled, got nil")
	}
}

// countingCtx reports itself cancelled starting on its Nth Err() call,
// letting a test deterministically cancel a render after a fixed number of
// per-block checks instead of racing a goroutine against the render loop.
type countingCtx struct {
	context.Context
	calls      int
	cancelFrom int
}

func (c *countingCtx) Err() error {
	c.calls++
	if c.calls >= c.cancelFrom {
		return context.Canceled
	}
	return nil
}

// Cancellation mid-render stops the track at the next block boundary
// instead of running every remaining block to completion: with one message
// per sample, render would otherwise need about a thousand ctx.Err() checks to
// cover a one-second buffer, but it stops after the second check.
func TestSequencerRender_StopsMidRenderAtBlockBoundary(t *testing.T) {
	seq := newTestSequencer(t)

	n := 1000
	times := make([]float64, n)
	messages := make([]smf.Message, n)
	for i := range times {
		times[i] = float64(i) / 44100.0
		messages[i] = smf.Message{}
	}
	seq.play(smf.TimedTrack{Times: times, Messages: messages}, false)

	ctx := &countingCtx{Context: context.Background(), cancelFrom: 2}

	left := make([]float32, 44100)
	right := make([]float32, 44100)

	if err := seq.render(ctx, left, right); err == nil {
		t.Fatalf("expected cancellation to stop render before the full buffer was filled")
	}
	if ctx.calls != 2 {
		t.Fatalf("got %d ctx.Err() checks, want exactly 2 (render must stop at the block where cancellation is observed)", ctx.calls)
	}
}
