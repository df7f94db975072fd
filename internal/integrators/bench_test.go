package integrators

import (
	"testing"

	"github.com/san-kum/coopsim/internal/dynamo"
)

type benchDynamics struct{}

func (b *benchDynamics) StateDim() int { return 2 }
func (b *benchDynamics) Derive(x dynamo.State, t float64) dynamo.State {
	r1, r2 := x[0], x[1]
	return dynamo.State{
		0.3*r1*(1-r1/100) + 0.4*r1*r2/(1+r2),
		0.2*r2*(1-r2/100) + 0.1*r1*r2/(1+r1),
	}
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn := &benchDynamics{}
	x := dynamo.State{20.0, 20.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn := &benchDynamics{}
	x := dynamo.State{20.0, 20.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	dyn := &benchDynamics{}
	x := dynamo.State{20.0, 20.0}
	tol := dynamo.DefaultConfig().Tolerance

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _, _ = integrator.StepAdaptive(dyn, x, 0, 0.01, tol)
	}
}
