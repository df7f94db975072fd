package experiment_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coopsim/internal/config"
	"github.com/san-kum/coopsim/internal/dynamo"
	"github.com/san-kum/coopsim/internal/experiment"
	"github.com/san-kum/coopsim/internal/metrics"
	"github.com/san-kum/coopsim/internal/models"
)

func run(cfg *config.Config) (*experiment.Result, error) {
	return experiment.Run(context.Background(), cfg)
}

var _ = Describe("Experiment", func() {
	Describe("default scenario", func() {
		var result *experiment.Result

		BeforeEach(func() {
			var err error
			result, err = run(config.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
		})

		It("samples 600 points over 50 years", func() {
			tr := result.Trajectory
			Expect(tr.Len()).To(Equal(600))
			Expect(tr.Times[0]).To(Equal(0.0))
			Expect(tr.Times[tr.Len()-1]).To(Equal(50.0))
			Expect(tr.First()).To(Equal(dynamo.State{20, 20}))
		})

		It("ends above the initial levels", func() {
			Expect(result.Summary.Region1Final).To(BeNumerically(">=", 20))
			Expect(result.Summary.Region2Final).To(BeNumerically(">=", 20))
		})

		It("never decreases in either region", func() {
			states := result.Trajectory.States
			for i := 1; i < len(states); i++ {
				Expect(states[i][0]).To(BeNumerically(">=", states[i-1][0]), "region 1 at sample %d", i)
				Expect(states[i][1]).To(BeNumerically(">=", states[i-1][1]), "region 2 at sample %d", i)
			}
		})

		It("reproduces the reference final state", func() {
			s := result.Summary
			Expect(s.Region1Final).To(BeNumerically("~", 232.449074, 1e-4))
			Expect(s.Region2Final).To(BeNumerically("~", 149.785514, 1e-4))
			Expect(s.TotalGrowth).To(BeNumerically("~", 342.234588, 2e-4))
			Expect(s.SynergyIndex).To(BeNumerically("~", 87.043760, 1e-4))
		})

		It("satisfies the total growth identity", func() {
			first, last := result.Trajectory.First(), result.Trajectory.Last()
			want := (last[0] + last[1]) - (first[0] + first[1])
			Expect(result.Summary.TotalGrowth).To(BeNumerically("~", want, 1e-9))
		})

		It("agrees with the fixed-step scheme", func() {
			cfg := config.DefaultConfig()
			cfg.Integrator = "rk4"
			fixed, err := run(cfg)
			Expect(err).NotTo(HaveOccurred())

			for i, s := range fixed.Trajectory.States {
				ref := result.Trajectory.States[i]
				Expect(s[0]).To(BeNumerically("~", ref[0], 1e-6))
				Expect(s[1]).To(BeNumerically("~", ref[1], 1e-6))
			}
		})
	})

	Describe("region symmetry", func() {
		It("swaps trajectories when parameters and initial levels are swapped", func() {
			cfg := config.DefaultConfig()
			cfg.InitState = config.InitStateConfig{Region1: 12, Region2: 35}

			mirrored := cfg.Clone()
			mirrored.Params = cfg.Params.Mirror()
			mirrored.InitState = config.InitStateConfig{Region1: 35, Region2: 12}

			a, err := run(cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := run(mirrored)
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Trajectory.Len()).To(Equal(a.Trajectory.Len()))
			for i := range a.Trajectory.States {
				x, y := a.Trajectory.States[i], b.Trajectory.States[i]
				Expect(y[0]).To(BeNumerically("~", x[1], 1e-6*math.Max(1, math.Abs(x[1]))))
				Expect(y[1]).To(BeNumerically("~", x[0], 1e-6*math.Max(1, math.Abs(x[0]))))
			}
		})
	})

	Describe("runs without growth", func() {
		It("has unit synergy for a zero horizon", func() {
			cfg := config.DefaultConfig()
			cfg.Years = 0

			res, err := run(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trajectory.Len()).To(Equal(1))
			Expect(res.Summary.SynergyIndex).To(Equal(1.0))
			Expect(res.Summary.TotalGrowth).To(Equal(0.0))
		})

		It("has unit synergy for all-zero parameters", func() {
			cfg := config.DefaultConfig()
			cfg.Params = models.CooperationParams{}

			res, err := run(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trajectory.Last()).To(Equal(res.Trajectory.First()))
			Expect(res.Summary.SynergyIndex).To(Equal(1.0))
		})
	})

	Describe("failures", func() {
		It("rejects a zero initial state when computing synergy", func() {
			cfg := config.DefaultConfig()
			cfg.InitState = config.InitStateConfig{}

			res, err := run(cfg)
			Expect(err).To(MatchError(metrics.ErrZeroInitialState))
			Expect(res).To(BeNil())
		})

		It("surfaces the coupling singularity as an integration error", func() {
			cfg := config.DefaultConfig()
			cfg.InitState = config.InitStateConfig{Region1: 20, Region2: -1}

			_, err := run(cfg)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, dynamo.ErrStepTooSmall) || errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue(), err.Error())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
		})

		It("rejects unknown integrators", func() {
			cfg := config.DefaultConfig()
			cfg.Integrator = "lsoda"

			_, err := run(cfg)
			Expect(err).To(MatchError(ContainSubstring("unknown integrator: lsoda")))
		})

		It("rejects invalid configuration before simulating", func() {
			cfg := config.DefaultConfig()
			cfg.Years = -5

			_, err := run(cfg)
			Expect(err).To(MatchError(config.ErrInvalid))
		})

		It("rejects horizons too long to sample instead of truncating them", func() {
			cfg := config.DefaultConfig()
			cfg.Years = 1e18

			res, err := run(cfg)
			Expect(err).To(MatchError(config.ErrInvalid))
			Expect(res).To(BeNil())
		})

		It("refuses to run before setup", func() {
			_, err := experiment.New(config.DefaultConfig()).Run(context.Background())
			Expect(err).To(HaveOccurred())
		})
	})
})
