package validator

import "math"

// StepSize is the amount a single increment or decrement moves the target weight.
const StepSize = 5

// Direction is the sign of a step.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// Valid reports whether d is Up or Down.
func (d Direction) Valid() bool {
	return d == Up || d == Down
}

// TargetCommit is the outcome of committing the target-weight field.
type TargetCommit struct {
	CommittedValue float64
	DisplayText    string
}

// BarCommit is the outcome of committing the bar-weight field. The target is included
// because raising the bar can drag it up.
type BarCommit struct {
	CommittedBar      float64
	CommittedTarget   float64
	BarDisplayText    string
	TargetDisplayText string
}

// TargetField returns the target-weight field, which never goes below the bar.
func TargetField(barWeight float64) Field {
	return Field{Floor: barWeight, Policy: Clamp}
}

// BarField returns the bar-weight field, which only accepts positive weights.
func BarField() Field {
	return Field{Floor: 0, Policy: Reject}
}

// CommitTargetWeight applies an edit of the target-weight field.
func CommitTargetWeight(rawText string, barWeight, previousTarget float64) TargetCommit {
	value, display, _ := TargetField(barWeight).Commit(rawText, previousTarget)
	return TargetCommit{CommittedValue: value, DisplayText: display}
}

// CommitBarWeight applies an edit of the bar-weight field and raises the target to the new
// bar when it would otherwise sit below it.
func CommitBarWeight(rawText string, previousBar, previousTarget float64) BarCommit {
	bar, barText, ok := BarField().Commit(rawText, previousBar)

	target := previousTarget
	if ok && target < bar {
		target = bar
	}

	return BarCommit{
		CommittedBar:      bar,
		CommittedTarget:   target,
		BarDisplayText:    barText,
		TargetDisplayText: FormatWeight(target),
	}
}

// Step moves the target by one StepSize in the given direction, never below the bar.
// An invalid direction leaves the target where it is, still clamped to the bar.
func Step(direction Direction, currentTarget, barWeight float64) float64 {
	next := currentTarget
	if direction.Valid() {
		next += float64(direction) * StepSize
	}
	return math.Max(next, barWeight)
}
