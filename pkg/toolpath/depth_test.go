package toolpath

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestMapDepths verifies the linear darker-is-deeper mapping.
func TestMapDepths(t *testing.T) {
	samples := mat.NewDense(2, 2, []float64{
		0, 1,
		0.5, 0.25,
	})

	depths, err := MapDepths(samples, 10)
	if err != nil {
		t.Fatalf("MapDepths failed: %v", err)
	}

	expected := [][]float64{
		{-10, 0},
		{-5, -7.5},
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if math.Abs(depths.At(r, c)-expected[r][c]) > 1e-12 {
				t.Errorf("Cell (%d,%d): expected depth %g, got %g", r, c, expected[r][c], depths.At(r, c))
			}
		}
	}
}

// TestMapDepthsUniformWhite verifies that a uniform white grid maps to an
// all-zero depth grid (nothing to cut).
func TestMapDepthsUniformWhite(t *testing.T) {
	samples := mat.NewDense(4, 4, nil)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			samples.Set(r, c, 1)
		}
	}

	depths, err := MapDepths(samples, 5)
	if err != nil {
		t.Fatalf("MapDepths failed: %v", err)
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if depths.At(r, c) != 0 {
				t.Errorf("Cell (%d,%d): expected depth 0 for white sample, got %g", r, c, depths.At(r, c))
			}
		}
	}
}

// TestMapDepthsNeverPositive verifies the sign convention: depths are
// always <= 0 regardless of the input intensities.
func TestMapDepthsNeverPositive(t *testing.T) {
	samples := mat.NewDense(3, 3, []float64{
		0, 0.1, 0.2,
		0.3, 0.5, 0.7,
		0.9, 0.99, 1,
	})
	depths, err := MapDepths(samples, 3)
	if err != nil {
		t.Fatalf("MapDepths failed: %v", err)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if depths.At(r, c) > 0 {
				t.Errorf("Cell (%d,%d): positive depth %g violates the sign convention", r, c, depths.At(r, c))
			}
		}
	}
}

// TestMapDepthsInvalid verifies eager rejection of invalid inputs.
func TestMapDepthsInvalid(t *testing.T) {
	samples := mat.NewDense(2, 2, nil)

	if _, err := MapDepths(samples, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for zero max depth, got %v", err)
	}
	if _, err := MapDepths(samples, -2); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for negative max depth, got %v", err)
	}
	if _, err := MapDepths(nil, 2); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput for nil grid, got %v", err)
	}
	if _, err := MapDepths(&mat.Dense{}, 2); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput for empty grid, got %v", err)
	}
}
