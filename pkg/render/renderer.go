package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sinshu/go-meltysynth/meltysynth"
	"golang.org/x/sync/errgroup"

	"github.com/zurustar/smfrender/pkg/smf"
	"github.com/zurustar/smfrender/pkg/smflog"
)

// headerByteSize is the fixed size of the MThd chunk: 4-byte tag, 4-byte
// length, and the always-6-byte body (format, track count, resolution).
// smf.TrackAddresses rejects any MThd whose body size is not 6, so this
// is the only valid value and track offsets are always relative to it.
const headerByteSize = 14

// Renderer discovers a Standard MIDI File's track chunks once at
// construction, then renders every track through its own synthesizer
// instance in parallel, mixing the results into a shared stereo pair.
type Renderer struct {
	path   string
	config Config

	header    smf.Header
	trackAddr []smf.TrackAddress
	tempoMap  []smf.RawEvent

	// TrackCount is the number of tracks discovered in the file.
	TrackCount int

	// RenderedTrackCount is incremented once per completed track and may
	// be polled from another goroutine for live progress; it never
	// decreases and reaches TrackCount exactly when Render returns without
	// error.
	RenderedTrackCount atomic.Int32
}

// New opens path, parses its header and track index, and scans tracks in
// order for the first one carrying a tempo change (the tempo map). It
// fails with smf.ErrUnsupportedFormat if the format is unsupported, if a
// format-0 file has more than one track, or if no track carries a tempo
// change at all.
func New(soundFont *meltysynth.SoundFont, path string, settings *meltysynth.SynthesizerSettings) (*Renderer, error) {
	return NewWithConfig(path, Config{SoundFont: soundFont, Settings: settings, Dialect: smf.NoLoop()})
}

// NewWithConfig is the same as New but takes a full Config, letting the
// caller select a loop dialect or loop-aware playback.
func NewWithConfig(path string, config Config) (*Renderer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: opening %s: %w", path, err)
	}
	defer f.Close()

	header, trackAddr, err := smf.TrackAddresses(f)
	if err != nil {
		return nil, fmt.Errorf("render: reading header of %s: %w", path, err)
	}

	if header.Format == 0 && header.TrackCount > 1 {
		return nil, fmt.Errorf("%w: format 0 with %d tracks", smf.ErrUnsupportedFormat, header.TrackCount)
	}

	tempoMap, err := findTempoMap(path, header, trackAddr, config.Dialect)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		path:       path,
		config:     config,
		header:     header,
		trackAddr:  trackAddr,
		tempoMap:   tempoMap,
		TrackCount: len(trackAddr),
	}
	return r, nil
}

// findTempoMap re-opens path and walks tracks in order, parsing each one
// until it finds the first with a TEMPO_CHANGE, matching spec's
// left-to-right tempo-map search. It does not keep every track's fully
// parsed result in memory, since only the tempo map is needed here; each
// track is re-parsed independently and in parallel during Render.
func findTempoMap(path string, header smf.Header, trackAddr []smf.TrackAddress, dialect smf.LoopDialect) ([]smf.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: opening %s: %w", path, err)
	}
	defer f.Close()

	for _, addr := range trackAddr {
		if _, err := f.Seek(headerByteSize+addr.Offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("render: seeking track in %s: %w", path, err)
		}
		buf := make([]byte, addr.Size)
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("render: reading track in %s: %w", path, err)
		}

		track, err := smf.ReadTrack(bytes.NewReader(buf), dialect)
		if err != nil {
			return nil, fmt.Errorf("render: parsing track in %s: %w", path, err)
		}
		if track.HasTempoChange() {
			return track.Events, nil
		}
	}

	return nil, fmt.Errorf("%w: no track contains a tempo change", smf.ErrUnsupportedFormat)
}

// Render renders every track concurrently, one synthesizer per track, and
// mixes them into a shared stereo pair whose length is the longest
// individual track. The first per-track failure aborts the remaining
// in-flight tasks and is returned; on success the returned slices are
// always non-nil (possibly empty, for a silent file).
func (r *Renderer) Render(ctx context.Context) ([]float32, []float32, error) {
	var masterMu sync.Mutex
	masterLeft := make([]float32, 0)
	masterRight := make([]float32, 0)

	g, ctx := errgroup.WithContext(ctx)

	for i, addr := range r.trackAddr {
		i, addr := i, addr
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			left, right, err := r.renderTrack(ctx, i, addr)
			if err != nil {
				smflog.LogTrackFailed(i, err)
				return fmt.Errorf("render: track %d: %w", i, err)
			}

			masterMu.Lock()
			mixInto(&masterLeft, left)
			mixInto(&masterRight, right)
			masterMu.Unlock()

			r.RenderedTrackCount.Add(1)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return masterLeft, masterRight, nil
}

// renderTrack reads one track's bytes from its own file handle, fuses it
// with the shared tempo map, casts tick deltas to seconds, and renders it
// through a freshly constructed synthesizer. ctx is threaded through to
// the sequencer so a sibling track's failure can stop this one between
// rendered blocks instead of always running to completion.
func (r *Renderer) renderTrack(ctx context.Context, index int, addr smf.TrackAddress) ([]float32, []float32, error) {
	smflog.LogTrackStart(index)

	f, err := os.Open(r.path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if _, err := f.Seek(headerByteSize+addr.Offset, io.SeekStart); err != nil {
		return nil, nil, err
	}

	buf := make([]byte, addr.Size)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, nil, err
	}

	raw, err := smf.ReadTrack(bytes.NewReader(buf), r.config.Dialect)
	if err != nil {
		return nil, nil, err
	}

	if index == 0 {
		if point, ok := r.config.Dialect.FixedPoint(); ok {
			raw = smf.InjectLoopPoint(raw, point)
		}
	}

	fused := smf.FuseTempoMap(raw, r.tempoMap)
	timed := smf.CastDelta(fused, r.header.Resolution)

	sampleRate := r.config.sampleRate()
	sampleCount := sampleCountFor(sampleRate, timed.Length())

	left := make([]float32, sampleCount)
	right := make([]float32, sampleCount)

	synth, err := meltysynth.NewSynthesizer(r.config.SoundFont, r.config.Settings)
	if err != nil {
		return nil, nil, fmt.Errorf("constructing synthesizer: %w", err)
	}

	seq := newSequencer(synth, sampleRate)
	seq.play(timed, r.config.Loop)
	if err := seq.render(ctx, left, right); err != nil {
		return nil, nil, err
	}

	smflog.LogTrackFinished(index, fused.LastTick(), timed.Length(), len(left))

	return left, right, nil
}

// sampleCountFor converts a track's duration in seconds to a sample count
// by truncation, not rounding: a track that ends a fraction of a sample
// short of the next integer does not get padded with a trailing silent
// sample.
func sampleCountFor(sampleRate int32, length float64) int {
	return int(float64(sampleRate) * length)
}

// mixInto grows *master with zero-padding up to len(src) if needed, then
// adds src element-wise into it. Called only under the caller's mutex.
func mixInto(master *[]float32, src []float32) {
	if len(*master) < len(src) {
		grown := make([]float32, len(src))
		copy(grown, *master)
		*master = grown
	}
	for i, v := range src {
		(*master)[i] += v
	}
}
