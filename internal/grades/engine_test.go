package grades

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSemesterAverageEmpty(t *testing.T) {
	if got := SemesterAverage(nil); got != 0 {
		t.Fatalf("nil record: expected 0, got %v", got)
	}
	if got := SemesterAverage(&SemesterRecord{}); got != 0 {
		t.Fatalf("empty record: expected 0, got %v", got)
	}
}

func TestSemesterAverageOnlyFinal(t *testing.T) {
	// Weights count only for present components, so a lone final score is
	// returned as-is.
	rec := &SemesterRecord{CK: f(9)}
	if got := SemesterAverage(rec); !almostEqual(got, 9) {
		t.Fatalf("only ck=9: expected 9, got %v", got)
	}
}

func TestSemesterAverageRegularAndFinal(t *testing.T) {
	// regularAvg=8 (weight 1), ck=10 (weight 3): (8 + 30) / 4 = 8.5.
	rec := &SemesterRecord{TX1: f(8), TX2: f(8), CK: f(10)}
	if got := SemesterAverage(rec); !almostEqual(got, 8.5) {
		t.Fatalf("expected 8.5, got %v", got)
	}
}

func TestSemesterAverageFullRecord(t *testing.T) {
	// regularAvg=(8.5+9+7.5+8)/4=8.25, gk=8.5*2, ck=9*3:
	// (8.25 + 17 + 27) / 6 = 8.7083...
	rec := &SemesterRecord{TX1: f(8.5), TX2: f(9.0), TX3: f(7.5), TX4: f(8.0), GK: f(8.5), CK: f(9.0)}
	got := SemesterAverage(rec)
	if !almostEqual(got, 52.25/6) {
		t.Fatalf("expected %v, got %v", 52.25/6, got)
	}
	if rounded := Round2(got); rounded != 8.71 {
		t.Fatalf("expected rounded 8.71, got %v", rounded)
	}
}

func TestSemesterAverageOnlyRegular(t *testing.T) {
	rec := &SemesterRecord{TX1: f(6), TX3: f(8)}
	if got := SemesterAverage(rec); !almostEqual(got, 7) {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestFinalAverage(t *testing.T) {
	cases := []struct {
		sem1, sem2, want float64
	}{
		{7, 9, 8},
		{0, 7, 7}, // a missing semester does not drag the year down
		{7, 0, 7},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := FinalAverage(tc.sem1, tc.sem2); !almostEqual(got, tc.want) {
			t.Fatalf("FinalAverage(%v, %v): expected %v, got %v", tc.sem1, tc.sem2, tc.want, got)
		}
	}
}

func TestStatus(t *testing.T) {
	if got := Status(6.5); got != StatusPromoted {
		t.Fatalf("6.5 should be promoted, got %s", got)
	}
	if got := Status(6.49); got != StatusRetained {
		t.Fatalf("6.49 should be retained, got %s", got)
	}
	if got := Status(0); got != StatusRetained {
		t.Fatalf("0 should be retained, got %s", got)
	}
}

func TestScoreUpdateValidate(t *testing.T) {
	if err := (ScoreUpdate{TX1: f(0), CK: f(10)}).Validate(); err != nil {
		t.Fatalf("boundary scores should be valid: %v", err)
	}
	if err := (ScoreUpdate{GK: f(10.5)}).Validate(); err == nil {
		t.Fatalf("expected error for score above 10")
	}
	if err := (ScoreUpdate{TX2: f(-1)}).Validate(); err == nil {
		t.Fatalf("expected error for negative score")
	}
}
