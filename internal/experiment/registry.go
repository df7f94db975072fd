package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/coopsim/internal/dynamo"
	"github.com/san-kum/coopsim/internal/integrators"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, r.ListIntegrators())
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
