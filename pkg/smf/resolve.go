package smf

import "sort"

// TimedTrack is a track whose tick deltas have been converted to real
// seconds under the file's tempo map. TEMPO_CHANGE events are consumed
// during conversion and never appear here.
type TimedTrack struct {
	Messages []Message
	Times    []float64
}

// Length returns the track's duration in seconds, or 0 for an empty track.
func (t TimedTrack) Length() float64 {
	if len(t.Times) == 0 {
		return 0
	}
	return t.Times[len(t.Times)-1]
}

// FindTempoMap scans tracks in order and returns the index and event list
// of the first one containing a TEMPO_CHANGE. ok is false if none exists.
// render.New applies the same first-match rule to tracks it reads from the
// file and fails with ErrUnsupportedFormat when no track matches.
func FindTempoMap(tracks []RawTrack) (index int, events []RawEvent, ok bool) {
	for i, t := range tracks {
		if t.HasTempoChange() {
			return i, t.Events, true
		}
	}
	return 0, nil, false
}

// FuseTempoMap concatenates a track's own events with the tempo map's
// events and stable-sorts the result by tick. Stability is what keeps
// co-incident tempo changes and channel events in their original relative
// order, as required by spec's fusion invariant.
func FuseTempoMap(track RawTrack, tempoMap []RawEvent) RawTrack {
	fused := make([]RawEvent, 0, len(track.Events)+len(tempoMap))
	fused = append(fused, track.Events...)
	fused = append(fused, tempoMap...)

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Tick < fused[j].Tick
	})

	return RawTrack{Events: fused}
}

// InjectLoopPoint inserts a LOOP_START marker at the given tick, placed
// immediately before the first event with tick >= point, or appended if
// point exceeds the track's last tick. A point of 0 is a no-op (spec's
// "loop_point != 0" guard); callers should check LoopDialect themselves
// before calling this, as it is only meaningful for track 0.
func InjectLoopPoint(track RawTrack, point int32) RawTrack {
	if point == 0 {
		return track
	}

	events := track.Events
	for i, e := range events {
		if e.Tick >= point {
			out := make([]RawEvent, 0, len(events)+1)
			out = append(out, events[:i]...)
			out = append(out, RawEvent{Message: loopStartMessage(), Tick: point})
			out = append(out, events[i:]...)
			return RawTrack{Events: out}
		}
	}

	out := make([]RawEvent, len(events), len(events)+1)
	copy(out, events)
	out = append(out, RawEvent{Message: loopStartMessage(), Tick: point})
	return RawTrack{Events: out}
}

// CastDelta walks a tick-sorted RawTrack left to right, converting tick
// deltas to seconds under the piecewise-constant tempo function the track
// carries, starting at the default of 120 BPM until the first TEMPO_CHANGE.
// TEMPO_CHANGE events are consumed (they never appear in the returned
// TimedTrack); a tempo change at tick T governs the interval starting at T,
// while the interval ending at T is still timed with the previous tempo,
// which is the standard SMF interpretation.
func CastDelta(track RawTrack, resolution int16) TimedTrack {
	if len(track.Events) == 0 {
		return TimedTrack{}
	}

	messages := make([]Message, 0, len(track.Events))
	times := make([]float64, 0, len(track.Events))

	var currentTick int32
	var currentTime float64
	tempo := defaultTempoBPM

	for _, e := range track.Events {
		deltaTicks := e.Tick - currentTick
		deltaSeconds := 60.0 / (float64(resolution) * tempo) * float64(deltaTicks)

		currentTick += deltaTicks
		currentTime += deltaSeconds

		if e.Message.Channel == ChannelTempoChange {
			tempo = e.Message.Tempo()
			continue
		}

		messages = append(messages, e.Message)
		times = append(times, currentTime)
	}

	return TimedTrack{Messages: messages, Times: times}
}
