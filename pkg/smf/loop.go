package smf

type loopKind int

const (
	loopKindNone loopKind = iota
	loopKindPoint
	loopKindRpgMaker
	loopKindIncredibleMachine
	loopKindFinalFantasy
)

// LoopDialect selects how loop markers are extracted from a track: either
// a fixed tick offset injected by the caller, or one of the well-known
// control-change conventions used by game engines and trackers that repurpose
// MIDI CC numbers to mark loop boundaries.
type LoopDialect struct {
	kind  loopKind
	point int32
}

// NoLoop performs no loop-point rewriting or injection.
func NoLoop() LoopDialect { return LoopDialect{kind: loopKindNone} }

// LoopAtTick injects a LOOP_START marker at the given tick into track 0
// before tempo-map fusion (see InjectLoopPoint). A point of 0 is a no-op,
// matching the reference's "loop_point != 0" guard.
func LoopAtTick(tick int32) LoopDialect {
	return LoopDialect{kind: loopKindPoint, point: tick}
}

// RpgMakerLoop treats CC#111 as LOOP_START, the RPG Maker convention.
func RpgMakerLoop() LoopDialect { return LoopDialect{kind: loopKindRpgMaker} }

// IncredibleMachineLoop treats CC#110/#111 as LOOP_START/LOOP_END.
func IncredibleMachineLoop() LoopDialect { return LoopDialect{kind: loopKindIncredibleMachine} }

// FinalFantasyLoop treats CC#116/#117 as LOOP_START/LOOP_END.
func FinalFantasyLoop() LoopDialect { return LoopDialect{kind: loopKindFinalFantasy} }

// FixedPoint reports the tick to inject a LOOP_START marker at, and
// whether d is a LoopAtTick dialect at all. Only track 0 honors this;
// callers should check ok before calling InjectLoopPoint.
func (d LoopDialect) FixedPoint() (tick int32, ok bool) {
	return d.point, d.kind == loopKindPoint
}
