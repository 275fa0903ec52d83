package belief

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

const epsilon = 1e-9

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestNew_RejectsBadPriors(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		beta  float64
	}{
		{"zero alpha", 0, 1},
		{"zero beta", 1, 0},
		{"negative alpha", -1, 1},
		{"negative beta", 1, -2},
		{"nan alpha", math.NaN(), 1},
		{"inf beta", 1, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.alpha, tt.beta, testRNG()); err == nil {
				t.Errorf("New(%v, %v): expected error, got nil", tt.alpha, tt.beta)
			}
		})
	}
}

func TestUpdate_ConjugatePosterior(t *testing.T) {
	e, err := New(1, 1, testRNG())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alpha, beta, err := e.Update([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !almostEqual(alpha, 7) || !almostEqual(beta, 4) {
		t.Errorf("posterior = (%v, %v), want (7, 4)", alpha, beta)
	}
	if !almostEqual(e.ExpectedValue(), 1.75) {
		t.Errorf("E[lambda] = %v, want 1.75", e.ExpectedValue())
	}
}

func TestUpdate_EmptyIsNoOp(t *testing.T) {
	e, _ := New(2, 3, testRNG())
	alpha, beta, err := e.Update(nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !almostEqual(alpha, 2) || !almostEqual(beta, 3) {
		t.Errorf("posterior = (%v, %v), want (2, 3)", alpha, beta)
	}
}

func TestUpdate_RejectsNegativeWithoutCorruption(t *testing.T) {
	e, _ := New(1, 1, testRNG())
	if _, _, err := e.Update([]int{2, 2}); err != nil {
		t.Fatalf("setup update: %v", err)
	}

	_, _, err := e.Update([]int{3, -1, 5})
	if !errors.Is(err, ErrInvalidObservation) {
		t.Fatalf("expected ErrInvalidObservation, got %v", err)
	}

	// The whole batch must be rejected, including the valid values.
	p := e.Posterior()
	if !almostEqual(p.Alpha, 5) || !almostEqual(p.Beta, 3) {
		t.Errorf("posterior after rejected batch = (%v, %v), want (5, 3)", p.Alpha, p.Beta)
	}
}

func TestMonotonicConcentration(t *testing.T) {
	e, _ := New(1, 1, testRNG())

	prevBeta := 0.0
	prevVariance := math.Inf(1)
	for i := 0; i < 50; i++ {
		_, beta, err := e.Update([]int{2})
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if beta <= prevBeta {
			t.Fatalf("beta did not increase: %v -> %v", prevBeta, beta)
		}
		v := e.Variance()
		if v > prevVariance+epsilon {
			t.Fatalf("variance increased at step %d: %v -> %v", i, prevVariance, v)
		}
		prevBeta = beta
		prevVariance = v
	}
}

func TestPosterior_IdempotentRead(t *testing.T) {
	e, _ := New(1, 1, testRNG())
	e.Update([]int{4})

	first := e.Posterior()
	second := e.Posterior()
	if first != second {
		t.Errorf("consecutive reads differ: %+v vs %+v", first, second)
	}
}

func TestSample_DoesNotMutate(t *testing.T) {
	e, _ := New(3, 2, testRNG())
	before := e.Posterior()

	samples := e.Sample(100)
	if len(samples) != 100 {
		t.Fatalf("got %d samples, want 100", len(samples))
	}
	for i, s := range samples {
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("sample %d = %v, want positive finite", i, s)
		}
	}

	if e.Posterior() != before {
		t.Error("sampling mutated the posterior")
	}
}

func TestSample_MeanNearExpectedValue(t *testing.T) {
	e, _ := New(4, 2, testRNG())

	n := 20000
	sum := 0.0
	for _, s := range e.Sample(n) {
		sum += s
	}
	mean := sum / float64(n)

	// E[lambda] = 2, sd = 1; the sample mean over 20k draws should land
	// well within 0.05.
	if math.Abs(mean-2.0) > 0.05 {
		t.Errorf("sample mean = %v, want within 0.05 of 2.0", mean)
	}
}

func TestProbabilityOfValue(t *testing.T) {
	e, _ := New(2, 1, testRNG()) // E[lambda] = 2

	p, err := e.ProbabilityOfValue(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(p, math.Exp(-2)) {
		t.Errorf("P(X=0) = %v, want e^-2", p)
	}

	p1, _ := e.ProbabilityOfValue(1)
	if !almostEqual(p1, 2*math.Exp(-2)) {
		t.Errorf("P(X=1) = %v, want 2e^-2", p1)
	}

	// Sums close to 1 over a wide support.
	total := 0.0
	for k := 0; k < 50; k++ {
		pk, _ := e.ProbabilityOfValue(k)
		total += pk
	}
	if math.Abs(total-1.0) > 1e-6 {
		t.Errorf("pmf sums to %v, want ~1", total)
	}
}

func TestProbabilityOfValue_RejectsNegative(t *testing.T) {
	e := NewDefault(testRNG())
	if _, err := e.ProbabilityOfValue(-1); !errors.Is(err, ErrInvalidObservation) {
		t.Errorf("expected ErrInvalidObservation, got %v", err)
	}
}

func TestReset_RestoresPrior(t *testing.T) {
	e, _ := New(2, 3, testRNG())
	e.Update([]int{5, 5, 5})
	e.Reset()

	p := e.Posterior()
	if !almostEqual(p.Alpha, 2) || !almostEqual(p.Beta, 3) {
		t.Errorf("posterior after reset = (%v, %v), want (2, 3)", p.Alpha, p.Beta)
	}
}
