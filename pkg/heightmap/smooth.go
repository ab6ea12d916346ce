package heightmap

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// Smoothed returns a low-pass filtered copy of the grid. The filter is
// separable: each row and then each column is transformed with a real
// FFT, the coefficients are attenuated with a Gaussian rolloff, and the
// sequence is transformed back. cutoff is the rolloff point as a fraction
// of the Nyquist frequency in (0,1]; smaller values smooth harder. A
// cutoff outside that range returns an unfiltered copy.
//
// Smoothing softens single-sample depth spikes before they turn into
// plunge moves, at the cost of rounding sharp carving edges. The DC
// component is never attenuated, so a uniform grid passes through
// unchanged up to rounding.
func (g *Grid) Smoothed(cutoff float64) *Grid {
	rows, cols := g.samples.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Copy(g.samples)
	if cutoff <= 0 || cutoff >= 1 || rows < 2 || cols < 2 {
		return &Grid{samples: out}
	}

	// Row-wise filtering.
	rowFFT := fourier.NewFFT(cols)
	rowSeq := make([]float64, cols)
	rowCoeff := make([]complex128, cols/2+1)
	for r := 0; r < rows; r++ {
		copy(rowSeq, out.RawRowView(r))
		rowFFT.Coefficients(rowCoeff, rowSeq)
		attenuate(rowCoeff, cutoff)
		rowFFT.Sequence(rowSeq, rowCoeff)
		for c := 0; c < cols; c++ {
			out.Set(r, c, rowSeq[c]/float64(cols))
		}
	}

	// Column-wise filtering.
	colFFT := fourier.NewFFT(rows)
	colSeq := make([]float64, rows)
	colCoeff := make([]complex128, rows/2+1)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			colSeq[r] = out.At(r, c)
		}
		colFFT.Coefficients(colCoeff, colSeq)
		attenuate(colCoeff, cutoff)
		colFFT.Sequence(colSeq, colCoeff)
		for r := 0; r < rows; r++ {
			out.Set(r, c, clamp01(colSeq[r]/float64(rows)))
		}
	}

	return &Grid{samples: out}
}

// attenuate applies a Gaussian rolloff to the FFT coefficients. Index k
// corresponds to the fraction k/(len-1) of the Nyquist frequency.
func attenuate(coeff []complex128, cutoff float64) {
	nyquist := float64(len(coeff) - 1)
	for k := 1; k < len(coeff); k++ {
		f := float64(k) / nyquist / cutoff
		coeff[k] *= complex(math.Exp(-0.5*f*f), 0)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
