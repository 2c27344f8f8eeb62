// Package strategy defines the Strategy interface for signal-generating
// trading strategies, their parameter schemas, and a Registry for
// instantiating strategies by key with parameter overrides.
package strategy

import (
	"revoscan/internal/domain"
)

// Strategy is the interface that all trading strategies implement. A
// strategy consumes an ordered bar sequence and produces one discrete signal
// per bar, derived only from bars up to and including the current one.
type Strategy interface {
	// Name returns the human-readable strategy name.
	Name() string

	// Description is a one-line summary of the entry/exit logic.
	Description() string

	// Params returns a copy of the current parameter values.
	Params() Params

	// SetParams overrides current parameter values. Unknown keys are
	// ignored; values are not bounds-checked.
	SetParams(p Params)

	// ParamSchema returns parameter metadata for UI generation.
	ParamSchema() []ParamSpec

	// GenerateSignals returns a signal per input bar. Inputs shorter than
	// the strategy's longest lookback produce neutral signals, never an
	// error.
	GenerateSignals(bars []domain.Bar) []domain.Signal
}

// ---------------------------------------------------------------------------
// Parameters
// ---------------------------------------------------------------------------

// Params maps parameter names to numeric values. Integer parameters are
// stored as float64 and truncated at point of use.
type Params map[string]float64

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Apply copies values from overrides for keys that already exist in p.
// Unknown keys are dropped, mirroring a UI that only renders declared
// controls.
func (p Params) Apply(overrides Params) {
	for k, v := range overrides {
		if _, ok := p[k]; ok {
			p[k] = v
		}
	}
}

// Int returns the parameter value truncated to an int.
func (p Params) Int(key string) int {
	return int(p[key])
}

// ParamSpec describes one strategy parameter for UI generation: its declared
// bounds, default/current value, and display metadata.
type ParamSpec struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Type        string  `json:"type"` // "int" or "float"
	Description string  `json:"description"`
}

// ---------------------------------------------------------------------------
// Signal post-processing
// ---------------------------------------------------------------------------

// HoldPositions converts transient crossing/breakout marks into a persistent
// held-position sequence with a single left-to-right scan: +1 enters a long
// position, -1 flattens it, and every bar in between reads as the current
// position state.
func HoldPositions(signals []domain.Signal) []domain.Signal {
	out := make([]domain.Signal, len(signals))
	position := domain.SignalFlat
	for i, s := range signals {
		switch s {
		case domain.SignalLong:
			position = domain.SignalLong
		case domain.SignalExit:
			position = domain.SignalFlat
		}
		out[i] = position
	}
	return out
}
