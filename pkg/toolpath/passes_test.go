package toolpath

import (
	"errors"
	"math"
	"testing"
)

// TestSchedulePasses verifies the ceil-based step-down schedule including
// the exact final pass.
func TestSchedulePasses(t *testing.T) {
	passes, err := SchedulePasses(10, 3, 0.01)
	if err != nil {
		t.Fatalf("SchedulePasses failed: %v", err)
	}

	expected := []float64{3, 6, 9, 10}
	if len(passes) != len(expected) {
		t.Fatalf("Expected %d passes, got %d (%v)", len(expected), len(passes), passes)
	}
	for i, want := range expected {
		if math.Abs(passes[i]-want) > 1e-12 {
			t.Errorf("Pass %d: expected depth %g, got %g", i, want, passes[i])
		}
	}
}

// TestSchedulePassesSinglePass verifies that a step-down equal to the max
// depth produces exactly one pass.
func TestSchedulePassesSinglePass(t *testing.T) {
	passes, err := SchedulePasses(10, 10, 0.01)
	if err != nil {
		t.Fatalf("SchedulePasses failed: %v", err)
	}
	if len(passes) != 1 {
		t.Fatalf("Expected 1 pass, got %d (%v)", len(passes), passes)
	}
	if passes[0] != 10 {
		t.Errorf("Expected pass depth 10, got %g", passes[0])
	}
}

// TestSchedulePassesProperties verifies the invariants over a range of
// parameter combinations: non-empty, strictly increasing, last element
// exactly maxDepth.
func TestSchedulePassesProperties(t *testing.T) {
	cases := []struct {
		maxDepth float64
		stepDown float64
	}{
		{2, 0.5},
		{5, 1.3},
		{0.6, 0.2},
		{7.5, 7.5},
		{1, 0.09},
	}

	for _, tc := range cases {
		passes, err := SchedulePasses(tc.maxDepth, tc.stepDown, 0.01)
		if err != nil {
			t.Fatalf("SchedulePasses(%g, %g) failed: %v", tc.maxDepth, tc.stepDown, err)
		}
		if len(passes) == 0 {
			t.Fatalf("SchedulePasses(%g, %g) returned no passes", tc.maxDepth, tc.stepDown)
		}
		if passes[len(passes)-1] != tc.maxDepth {
			t.Errorf("SchedulePasses(%g, %g): last pass %g, expected exactly %g",
				tc.maxDepth, tc.stepDown, passes[len(passes)-1], tc.maxDepth)
		}
		for i := 1; i < len(passes); i++ {
			if passes[i] <= passes[i-1] {
				t.Errorf("SchedulePasses(%g, %g): not strictly increasing at %d: %v",
					tc.maxDepth, tc.stepDown, i, passes)
			}
		}
	}
}

// TestSchedulePassesEpsilonSkip verifies that a final pass below the
// epsilon threshold is folded into the previous pass.
func TestSchedulePassesEpsilonSkip(t *testing.T) {
	// Remainder of 0.005 mm is below the 0.01 mm epsilon.
	passes, err := SchedulePasses(6.005, 3, 0.01)
	if err != nil {
		t.Fatalf("SchedulePasses failed: %v", err)
	}
	if len(passes) != 2 {
		t.Fatalf("Expected kiss pass to be folded into 2 passes, got %d (%v)", len(passes), passes)
	}
	if passes[1] != 6.005 {
		t.Errorf("Expected final pass exactly 6.005, got %g", passes[1])
	}

	// Remainder of 1 mm is kept.
	passes, err = SchedulePasses(10, 3, 0.01)
	if err != nil {
		t.Fatalf("SchedulePasses failed: %v", err)
	}
	if len(passes) != 4 {
		t.Errorf("Expected the 1 mm final pass to be kept (4 passes), got %d (%v)", len(passes), passes)
	}
}

// TestSchedulePassesInvalid verifies eager rejection of non-positive
// parameters.
func TestSchedulePassesInvalid(t *testing.T) {
	if _, err := SchedulePasses(10, 0, 0.01); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for zero step-down, got %v", err)
	}
	if _, err := SchedulePasses(10, -1, 0.01); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for negative step-down, got %v", err)
	}
	if _, err := SchedulePasses(0, 1, 0.01); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for zero max depth, got %v", err)
	}
}
