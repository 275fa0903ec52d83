// Package belief maintains a Bayesian estimate of a learner's latent
// skill rate using the Poisson-Gamma conjugate pair:
//
//	Likelihood: X ~ Poisson(λ)
//	Prior:      λ ~ Gamma(α, β)
//	Posterior:  λ|X ~ Gamma(α + Σxᵢ, β + n)
//
// The estimator is a pure running accumulator with no I/O. It is not
// safe for concurrent use; each learner session owns its own instance.
package belief

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrInvalidObservation is returned when an observation is outside the
// Poisson domain (negative). The estimator state is left untouched.
var ErrInvalidObservation = errors.New("observation must be a non-negative integer")

// Posterior is a read-only snapshot of the current distribution.
type Posterior struct {
	Alpha         float64 `json:"alpha"`
	Beta          float64 `json:"beta"`
	ExpectedValue float64 `json:"expected_value"`
}

// Estimator accumulates observations into a Gamma posterior over λ.
type Estimator struct {
	alpha float64
	beta  float64

	priorAlpha float64
	priorBeta  float64

	rng *rand.Rand
}

// New creates an Estimator with the given Gamma prior. Both parameters
// must be strictly positive. The rng is used only by Sample; pass a
// seeded source to make sampling deterministic in tests.
func New(alpha, beta float64, rng *rand.Rand) (*Estimator, error) {
	if alpha <= 0 || beta <= 0 || math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("prior parameters must be positive and finite, got alpha=%v beta=%v", alpha, beta)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Estimator{
		alpha:      alpha,
		beta:       beta,
		priorAlpha: alpha,
		priorBeta:  beta,
		rng:        rng,
	}, nil
}

// NewDefault creates an Estimator with the uninformative Gamma(1, 1) prior.
func NewDefault(rng *rand.Rand) *Estimator {
	e, _ := New(1, 1, rng)
	return e
}

// Update folds a batch of observations into the posterior and returns
// the new (α, β). An empty batch is a no-op that still returns the
// current parameters. If any observation is negative the whole batch is
// rejected with ErrInvalidObservation and no state changes.
func (e *Estimator) Update(observations []int) (alpha, beta float64, err error) {
	for _, x := range observations {
		if x < 0 {
			return e.alpha, e.beta, fmt.Errorf("%w: got %d", ErrInvalidObservation, x)
		}
	}

	sum := 0
	for _, x := range observations {
		sum += x
	}

	e.alpha += float64(sum)
	e.beta += float64(len(observations))
	return e.alpha, e.beta, nil
}

// ExpectedValue returns E[λ] = α/β. Always positive: β starts above
// zero and only grows.
func (e *Estimator) ExpectedValue() float64 {
	return e.alpha / e.beta
}

// Posterior returns a snapshot of the current parameters.
func (e *Estimator) Posterior() Posterior {
	return Posterior{
		Alpha:         e.alpha,
		Beta:          e.beta,
		ExpectedValue: e.ExpectedValue(),
	}
}

// Variance returns the posterior variance α/β².
func (e *Estimator) Variance() float64 {
	return e.alpha / (e.beta * e.beta)
}

// Sample draws n independent values from Gamma(α, β). It never mutates
// the posterior; callers use it for visualization and export only.
func (e *Estimator) Sample(n int) []float64 {
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sampleGamma(e.rng, e.alpha, e.beta))
	}
	return out
}

// ProbabilityOfValue returns the Poisson point mass P(X = k) evaluated
// at the plug-in estimate λ = E[λ].
//
// This is a deliberate simplification: the full posterior-predictive of
// a Poisson-Gamma model is negative binomial, but downstream consumers
// only need a cheap "how surprising would this level be" signal, so the
// point estimate is plugged in instead.
func (e *Estimator) ProbabilityOfValue(k int) (float64, error) {
	if k < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidObservation, k)
	}
	lambda := e.ExpectedValue()
	// log form avoids overflow in k! for large k.
	lg, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(lambda) - lambda - lg), nil
}

// Reset restores the estimator to its initial prior.
func (e *Estimator) Reset() {
	e.alpha = e.priorAlpha
	e.beta = e.priorBeta
}

// sampleGamma draws from Gamma(shape, rate) using the Marsaglia-Tsang
// squeeze method. For shape < 1 it boosts to shape+1 and scales by
// U^(1/shape).
func sampleGamma(rng *rand.Rand, shape, rate float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		return sampleGamma(rng, shape+1, rate) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v / rate
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v / rate
		}
	}
}
