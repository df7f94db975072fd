package metrics

import (
	"errors"
	"fmt"

	"github.com/san-kum/coopsim/internal/dynamo"
)

// ErrZeroInitialState is returned when the synergy index would divide by a
// zero initial level.
var ErrZeroInitialState = errors.New("metrics: synergy index undefined for zero initial level")

// Metric names, in report order.
const (
	Region1Final = "Region 1 Final Level"
	Region2Final = "Region 2 Final Level"
	TotalGrowth  = "Total Growth"
	SynergyIndex = "Synergy Index"
)

// Value is a named scalar result.
type Value struct {
	Name  string
	Value float64
}

// Summary reduces a cooperation run to its headline numbers.
type Summary struct {
	Region1Final float64
	Region2Final float64
	TotalGrowth  float64
	SynergyIndex float64
}

// Values returns the summary in report order.
func (s Summary) Values() []Value {
	return []Value{
		{Name: Region1Final, Value: s.Region1Final},
		{Name: Region2Final, Value: s.Region2Final},
		{Name: TotalGrowth, Value: s.TotalGrowth},
		{Name: SynergyIndex, Value: s.SynergyIndex},
	}
}

// Calculate derives the summary from the first and last samples of tr.
func Calculate(tr *dynamo.Trajectory) (Summary, error) {
	if tr == nil || tr.Len() == 0 {
		return Summary{}, fmt.Errorf("%w: empty trajectory", dynamo.ErrDimensionMismatch)
	}
	first, last := tr.First(), tr.Last()
	if len(first) != 2 || len(last) != 2 {
		return Summary{}, fmt.Errorf("%w: expected 2 regions, got %d", dynamo.ErrDimensionMismatch, len(first))
	}
	if first[0] == 0 || first[1] == 0 {
		return Summary{}, fmt.Errorf("%w: initial levels (%g, %g)", ErrZeroInitialState, first[0], first[1])
	}

	return Summary{
		Region1Final: last[0],
		Region2Final: last[1],
		TotalGrowth:  (last[0] + last[1]) - (first[0] + first[1]),
		SynergyIndex: (last[0] * last[1]) / (first[0] * first[1]),
	}, nil
}
