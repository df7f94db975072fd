package models

import "github.com/san-kum/coopsim/internal/dynamo"

// CarryingCapacity is the level at which logistic self-growth saturates.
const CarryingCapacity = 100.0

// CooperationParams are the four rate constants of the two-region model.
// Values are taken as given; nothing here rejects combinations that make
// the dynamics blow up.
type CooperationParams struct {
	// A is the technology transfer rate: region 1 self-growth.
	A float64 `yaml:"a" env:"A"`
	// B is the collaboration factor: region 2's pull on region 1.
	B float64 `yaml:"b" env:"B"`
	// C is the trade growth rate: region 2 self-growth.
	C float64 `yaml:"c" env:"C"`
	// D is the resource constraint: region 1's pull on region 2.
	D float64 `yaml:"d" env:"D"`
}

func DefaultParams() CooperationParams {
	return CooperationParams{A: 0.3, B: 0.4, C: 0.2, D: 0.1}
}

// Mirror swaps the roles of the two regions.
func (p CooperationParams) Mirror() CooperationParams {
	return CooperationParams{A: p.C, B: p.D, C: p.A, D: p.B}
}

// Cooperation is logistic growth per region plus a cross-region synergy
// term that saturates as the partner develops.
//
//	dx1/dt = a·x1·(1 - x1/100) + b·x1·x2/(1 + x2)
//	dx2/dt = c·x2·(1 - x2/100) + d·x1·x2/(1 + x1)
//
// The 1 + x denominators are singular at x = -1 and are left unguarded.
type Cooperation struct {
	params CooperationParams
}

func NewCooperation(p CooperationParams) *Cooperation {
	return &Cooperation{params: p}
}

func (c *Cooperation) StateDim() int { return 2 }

func (c *Cooperation) Params() CooperationParams { return c.params }

func (c *Cooperation) Derive(x dynamo.State, _ float64) dynamo.State {
	r1, r2 := x[0], x[1]
	p := c.params

	d1 := p.A*r1*(1-r1/CarryingCapacity) + p.B*r1*r2/(1+r2)
	d2 := p.C*r2*(1-r2/CarryingCapacity) + p.D*r1*r2/(1+r1)

	return dynamo.State{d1, d2}
}

// GetParams implements dynamo.Configurable
func (c *Cooperation) GetParams() map[string]float64 {
	return map[string]float64{
		"a": c.params.A,
		"b": c.params.B,
		"c": c.params.C,
		"d": c.params.D,
	}
}

// SetParam implements dynamo.Configurable
func (c *Cooperation) SetParam(name string, value float64) {
	switch name {
	case "a":
		c.params.A = value
	case "b":
		c.params.B = value
	case "c":
		c.params.C = value
	case "d":
		c.params.D = value
	}
}
