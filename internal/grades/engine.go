package grades

import "math"

// Pass threshold for the yearly average. Status uses the plain-threshold
// policy: promoted iff the final average clears it.
const PassThreshold = 6.5

// Status values shown to parents and teachers.
const (
	StatusPromoted = "Lên lớp"
	StatusRetained = "Học lại"
)

// Component weights of the semester formula. Weights count only for
// components that are present, so a record with just a final exam score
// averages to exactly that score.
const (
	weightRegular = 1
	weightMidterm = 2
	weightFinal   = 3
)

// SemesterAverage computes the weighted semester average over the
// components that exist. A nil or empty record averages to 0.
func SemesterAverage(r *SemesterRecord) float64 {
	if r == nil {
		return 0
	}

	var regularSum float64
	var regularCount int
	for _, score := range []*float64{r.TX1, r.TX2, r.TX3, r.TX4} {
		if score != nil {
			regularSum += *score
			regularCount++
		}
	}

	var weightedSum float64
	var usedWeights int
	if regularCount > 0 {
		weightedSum += (regularSum / float64(regularCount)) * weightRegular
		usedWeights += weightRegular
	}
	if r.GK != nil {
		weightedSum += *r.GK * weightMidterm
		usedWeights += weightMidterm
	}
	if r.CK != nil {
		weightedSum += *r.CK * weightFinal
		usedWeights += weightFinal
	}
	if usedWeights == 0 {
		return 0
	}
	return weightedSum / float64(usedWeights)
}

// FinalAverage combines two semester averages. A missing or zero semester
// does not drag down an otherwise complete year: only when both are
// strictly positive is the arithmetic mean taken.
func FinalAverage(sem1, sem2 float64) float64 {
	if sem1 > 0 && sem2 > 0 {
		return (sem1 + sem2) / 2
	}
	return math.Max(sem1, sem2)
}

// Status derives the pass decision from the yearly average.
func Status(finalAverage float64) string {
	if finalAverage >= PassThreshold {
		return StatusPromoted
	}
	return StatusRetained
}

// Round2 rounds to two decimals for response payloads.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
