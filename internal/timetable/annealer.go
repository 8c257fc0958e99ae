package timetable

import (
	"context"
	"math"
	"math/rand"

	"go.uber.org/zap"
)

// Result summarises one annealing run.
type Result struct {
	BestCost   float64
	Iterations int
	// Trace holds the accepted-state cost after every inner iteration. It is
	// a search trace, not a monotone series; the running maximum is.
	Trace []float64
}

// Annealer drives the simulated-annealing search over assignment grids,
// maximizing the revenue score produced by Cost.
type Annealer struct {
	cfg    Config
	params Params
	rng    *rand.Rand
	logger *zap.Logger
}

// NewAnnealer wires an annealer. A nil logger is replaced with a no-op.
func NewAnnealer(cfg Config, params Params, rng *rand.Rand, logger *zap.Logger) *Annealer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Annealer{cfg: cfg, params: params, rng: rng, logger: logger}
}

// Optimize runs the search starting from seed and returns the best grid
// found. The seed grid is never mutated: the search works on a clone, so a
// cancelled run leaves the caller's committed state intact.
//
// Rejected proposals are rolled back by applying the inverse relocation, so
// the working grid always matches the bookkept current cost.
func (a *Annealer) Optimize(ctx context.Context, seed *Grid) (*Grid, Result, error) {
	current := seed.Clone()
	best := current.Clone()

	currentCost := Cost(current, a.cfg)
	bestCost := currentCost

	temp := a.params.InitialTemp
	stagnant := 0
	total := 0
	trace := make([]float64, 0, a.params.IterationsPerTemp)

	for temp > a.params.MinTemp && stagnant < a.params.MaxStagnantEpochs {
		for i := 0; i < a.params.IterationsPerTemp; i++ {
			select {
			case <-ctx.Done():
				return nil, Result{}, ctx.Err()
			default:
			}

			total++
			move, err := Neighbor(a.rng, current)
			if err != nil {
				return nil, Result{}, err
			}

			neighborCost := Cost(current, a.cfg)
			delta := neighborCost - currentCost

			switch {
			case delta >= 0:
				currentCost = neighborCost
				if currentCost > bestCost {
					best = current.Clone()
					bestCost = currentCost
					a.logger.Debug("new best schedule",
						zap.Float64("cost", bestCost),
						zap.Int("iteration", total))
				}
			case a.rng.Float64() < math.Exp(delta/temp):
				currentCost = neighborCost
			default:
				if err := current.Relocate(move.Inverse().From, move.Inverse().To); err != nil {
					return nil, Result{}, err
				}
			}

			trace = append(trace, currentCost)
		}

		temp *= a.params.Alpha

		if math.Abs(currentCost-bestCost) < a.params.Epsilon {
			stagnant++
		} else {
			stagnant = 0
		}
	}

	a.logger.Info("annealing finished",
		zap.Float64("best_cost", bestCost),
		zap.Int("iterations", total),
		zap.Float64("final_temp", temp))

	return best, Result{BestCost: bestCost, Iterations: total, Trace: trace}, nil
}
