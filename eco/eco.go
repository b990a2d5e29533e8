// Package eco accounts for the estimated energy footprint of a run.
//
// Every statement the interpreter executes charges a weighted operation
// count to a Meter. When the run finishes, Estimate converts the total
// into Joules, kilowatt-hours, and grams of CO2 using a small model: a
// fixed energy cost per operation plus an idle-power draw for the run's
// wall-clock duration.
package eco

import "math"

// Operation kinds in the cost table.
const (
	OpPrint     = "print"
	OpLoopCheck = "loop_check"
	OpMath      = "math"
	OpAssign    = "assign"
	OpIO        = "io"
	OpOptimize  = "optimize"
	OpOther     = "other"
	OpFuncCall  = "func_call"
)

// HighUsageThreshold is the operation count above which a run is flagged
// as energy-hungry, both in its warnings and in the report's tips.
const HighUsageThreshold = 1000

// MinScale is the floor for the savePower multiplier.
const MinScale = 0.1

// DefaultCosts returns a fresh copy of the default operation cost table.
func DefaultCosts() map[string]int64 {
	return map[string]int64{
		OpPrint:     50,
		OpLoopCheck: 5,
		OpMath:      10,
		OpAssign:    5,
		OpIO:        200,
		OpOptimize:  1000,
		OpOther:     5,
		OpFuncCall:  20,
	}
}

// Meter accumulates weighted operation counts for one run.
type Meter struct {
	costs map[string]int64
	total int64
}

// NewMeter creates a Meter with the given cost table, or the defaults
// when costs is nil.
func NewMeter(costs map[string]int64) *Meter {
	if costs == nil {
		costs = DefaultCosts()
	}
	return &Meter{costs: costs}
}

// Charge adds the scaled cost of one operation and returns the amount
// charged. Scaling truncates toward zero, so a low multiplier can price
// an operation at nothing.
func (m *Meter) Charge(kind string, scale float64) int64 {
	charged := int64(float64(m.Cost(kind)) * scale)
	m.total += charged
	return charged
}

// Cost returns the unscaled cost of an operation kind. Unknown kinds
// cost the same as "other".
func (m *Meter) Cost(kind string) int64 {
	if cost, ok := m.costs[kind]; ok {
		return cost
	}
	return m.costs[OpOther]
}

// Total returns the operations charged so far.
func (m *Meter) Total() int64 {
	return m.total
}

// Scale converts a savePower level into an op-cost multiplier. Each
// level point shaves one percent off, floored at MinScale.
func Scale(level float64) float64 {
	return math.Max(MinScale, 1.0-level*0.01)
}
