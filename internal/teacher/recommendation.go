package teacher

// Band is an enumerated skill band derived from the expected value of
// the belief. Bands partition the non-negative reals; there is no
// overlap and no gap.
type Band string

const (
	BandBeginner      Band = "beginner"
	BandBasic         Band = "basic"
	BandIntermediate  Band = "intermediate"
	BandAdvancedReady Band = "advanced-ready"
	BandExpert        Band = "expert"
)

// BandFor maps an expected skill rate to its band.
func BandFor(expectedValue float64) Band {
	switch {
	case expectedValue < 0.5:
		return BandBeginner
	case expectedValue < 1.5:
		return BandBasic
	case expectedValue < 2.5:
		return BandIntermediate
	case expectedValue < 3.5:
		return BandAdvancedReady
	default:
		return BandExpert
	}
}

// Text returns the human-readable recommendation for a band.
func (b Band) Text() string {
	switch b {
	case BandBeginner:
		return "Student is at a beginner level. Focus on foundational concepts."
	case BandBasic:
		return "Student is progressing well with basic topics."
	case BandIntermediate:
		return "Student is developing intermediate skills. Progress to more complex concepts."
	case BandAdvancedReady:
		return "Student has solid knowledge. Challenge with advanced topics."
	case BandExpert:
		return "Student is demonstrating expert-level understanding. Consider specialized topics."
	default:
		return "No recommendation available."
	}
}

// Recommendation returns the text recommendation for the teacher's
// current belief. Pure function of the expected value.
func (t *Teacher) Recommendation() string {
	return BandFor(t.estimator.ExpectedValue()).Text()
}
