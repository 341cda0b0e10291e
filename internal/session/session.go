// Package session holds the editable state behind the calculator's two weight fields and
// keeps the per-side loadout in step with the committed values.
//
// A Session is driven by a single event loop and is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/eugenenazirov/plate-calculator/internal/plates"
	"github.com/eugenenazirov/plate-calculator/internal/validator"
)

// ErrInvalidBarWeight is returned by New when the starting bar weight is not positive or
// exceeds the max target weight.
var ErrInvalidBarWeight = errors.New("bar weight must be positive and within the max target weight")

// Option configures a Session.
type Option func(*Session)

// WithMaxTargetWeight caps both fields at max. Larger committed values are lowered to it
// and increments stop there. A non-positive max leaves the fields unbounded.
func WithMaxTargetWeight(max float64) Option {
	return func(s *Session) {
		if max > 0 {
			s.maxTarget = max
		}
	}
}

// Field identifies one of the editable weight fields.
type Field int

const (
	TargetField Field = iota
	BarField
)

func (f Field) String() string {
	switch f {
	case TargetField:
		return "target"
	case BarField:
		return "bar"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// State is a point-in-time view of a Session.
type State struct {
	TargetWeight float64
	BarWeight    float64
	TargetText   string
	BarText      string
	Loadout      plates.Loadout
}

type loadoutKey struct {
	target float64
	bar    float64
}

// Session tracks display text and committed values for the target and bar fields.
type Session struct {
	resolver      plates.Resolver
	denominations []float64
	maxTarget     float64

	target     float64
	bar        float64
	targetText string
	barText    string

	cachedKey    loadoutKey
	cachedPlates []float64
	cached       bool
}

// New starts a session. The starting target is raised to the bar if it sits below it,
// and lowered to the max target weight when one is configured.
func New(resolver plates.Resolver, denominations []float64, barWeight, targetWeight float64, opts ...Option) (*Session, error) {
	normalized, err := plates.NormalizeDenominations(denominations)
	if err != nil {
		return nil, fmt.Errorf("session plates: %w", err)
	}
	if resolver == nil {
		resolver = plates.New()
	}

	s := &Session{
		resolver:      resolver,
		denominations: normalized,
	}
	for _, opt := range opts {
		opt(s)
	}

	if barWeight <= 0 || (s.maxTarget > 0 && barWeight > s.maxTarget) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidBarWeight, barWeight)
	}

	s.bar = barWeight
	s.target = s.capped(math.Max(targetWeight, barWeight))
	s.barText = validator.FormatWeight(s.bar)
	s.targetText = validator.FormatWeight(s.target)
	return s, nil
}

// Edit replaces a field's display text without validating it.
func (s *Session) Edit(field Field, text string) {
	switch field {
	case TargetField:
		s.targetText = text
	case BarField:
		s.barText = text
	}
}

// Commit validates the field's display text and applies it, or reverts the text.
func (s *Session) Commit(field Field) {
	switch field {
	case TargetField:
		input := validator.TargetField(s.bar)
		input.Ceiling = s.maxTarget
		s.target, s.targetText, _ = input.Commit(s.targetText, s.target)
	case BarField:
		input := validator.BarField()
		input.Ceiling = s.maxTarget
		bar, barText, ok := input.Commit(s.barText, s.bar)
		s.bar, s.barText = bar, barText
		if ok && s.target < bar {
			s.target = bar
			s.targetText = validator.FormatWeight(bar)
		} else {
			s.targetText = validator.FormatWeight(s.target)
		}
	}
}

// Set is Edit followed by Commit, the equivalent of typing a value and pressing Enter.
func (s *Session) Set(field Field, text string) {
	s.Edit(field, text)
	s.Commit(field)
}

// Increment raises the target by one step.
func (s *Session) Increment() {
	s.step(validator.Up)
}

// Decrement lowers the target by one step, stopping at the bar weight.
func (s *Session) Decrement() {
	s.step(validator.Down)
}

func (s *Session) step(direction validator.Direction) {
	s.target = s.capped(validator.Step(direction, s.target, s.bar))
	s.targetText = validator.FormatWeight(s.target)
}

func (s *Session) capped(target float64) float64 {
	if s.maxTarget > 0 {
		return math.Min(target, s.maxTarget)
	}
	return target
}

// Plates returns the per-side loadout for the committed target and bar weights.
func (s *Session) Plates() []float64 {
	key := loadoutKey{target: s.target, bar: s.bar}
	if !s.cached || s.cachedKey != key {
		s.cachedPlates = s.resolver.Resolve(s.target, s.bar, s.denominations)
		s.cachedKey = key
		s.cached = true
	}
	return slices.Clone(s.cachedPlates)
}

// State returns the current field texts, committed values and loadout.
func (s *Session) State() State {
	return State{
		TargetWeight: s.target,
		BarWeight:    s.bar,
		TargetText:   s.targetText,
		BarText:      s.barText,
		Loadout:      plates.Summarize(s.target, s.bar, s.Plates()),
	}
}
