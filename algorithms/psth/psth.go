// Package psth computes smoothed peri-stimulus time histograms from
// trial-aligned spike times.
package psth

import (
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/PesaranB/mind-snag/config"
)

// kernelWidthSigmas is where the Gaussian smoothing kernel is
// truncated, in standard deviations on each side.
const kernelWidthSigmas = 3

// Estimator converts collections of per-trial spike-time arrays into
// smoothed firing-rate curves.
type Estimator struct {
	smoothing float64

	// Convolution switches to the FFT path above this histogram
	// length; both paths produce the same trimmed output.
	useFFT       bool
	fftThreshold int
}

// New creates an estimator with the given Gaussian smoothing standard
// deviation in milliseconds.
func New(smoothing float64) *Estimator {
	return &Estimator{
		smoothing:    smoothing,
		useFFT:       true,
		fftThreshold: 1000,
	}
}

// Rate computes the smoothed firing rate over win from per-trial
// spike times (milliseconds relative to a common event).
//
// The result has win.Len() one-millisecond bins and is normalized to
// spikes/second across trials. Zero trials yield an all-zero curve of
// the correct length. Returns the curve and the trial count.
func (e *Estimator) Rate(trials [][]float64, win config.Window) ([]float64, int) {
	n := win.Len()
	nTr := len(trials)
	if nTr == 0 {
		return make([]float64, n), 0
	}

	hist := e.histogram(trials, win)
	kernel := e.kernel()
	halfWidth := (len(kernel) - 1) / 2

	conv := e.convolve(hist, kernel)

	// Full convolution trimmed back to the window length, keeping the
	// center so the curve stays aligned to the window.
	rate := make([]float64, n)
	scale := 1000.0 / float64(nTr)
	for i := 0; i < n; i++ {
		rate[i] = scale * conv[halfWidth+i]
	}
	return rate, nTr
}

// histogram pools spikes from all trials into win.Len() bins spanning
// [win.Start, win.Stop], both edges inclusive.
func (e *Estimator) histogram(trials [][]float64, win config.Window) []float64 {
	n := win.Len()
	start := float64(win.Start)
	stop := float64(win.Stop)
	width := (stop - start) / float64(n)

	hist := make([]float64, n)
	for _, spikes := range trials {
		for _, s := range spikes {
			if s < start || s > stop {
				continue
			}
			idx := 0
			if width > 0 {
				idx = int((s - start) / width)
			}
			if idx >= n {
				idx = n - 1
			}
			hist[idx]++
		}
	}
	return hist
}

// kernel samples the Normal PDF at integer milliseconds over
// +-kernelWidthSigmas standard deviations.
func (e *Estimator) kernel() []float64 {
	halfWidth := int(kernelWidthSigmas * e.smoothing)
	dist := distuv.Normal{Mu: 0, Sigma: e.smoothing}

	k := make([]float64, 2*halfWidth+1)
	for i := range k {
		k[i] = dist.Prob(float64(i - halfWidth))
	}
	return k
}

func (e *Estimator) convolve(signal, kernel []float64) []float64 {
	if e.useFFT && len(signal) > e.fftThreshold {
		return convolveFFT(signal, kernel)
	}
	return convolveDirect(signal, kernel)
}

// convolveDirect computes the full linear convolution in the time
// domain, length len(signal)+len(kernel)-1.
func convolveDirect(signal, kernel []float64) []float64 {
	out := make([]float64, len(signal)+len(kernel)-1)
	for i, s := range signal {
		if s == 0 {
			continue
		}
		for j, k := range kernel {
			out[i+j] += s * k
		}
	}
	return out
}

// convolveFFT computes the same full linear convolution in the
// frequency domain; faster for wide windows.
func convolveFFT(signal, kernel []float64) []float64 {
	n := len(signal) + len(kernel) - 1

	padded1 := make([]float64, n)
	copy(padded1, signal)
	padded2 := make([]float64, n)
	copy(padded2, kernel)

	f1 := fft.FFTReal(padded1)
	f2 := fft.FFTReal(padded2)
	for i := range f1 {
		f1[i] *= f2[i]
	}

	inv := fft.IFFT(f1)
	out := make([]float64, n)
	for i := range out {
		out[i] = real(inv[i])
	}
	return out
}
