package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// RNG is the random source used by generation and movement.
// *rand.Rand satisfies it.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// smoothKernel is the 3x3 binomial blur, normalised by 16.
var smoothKernel = [3][3]float64{
	{1, 2, 1},
	{2, 4, 2},
	{1, 2, 1},
}

// UniformNoise draws one value in [0,1) per cell in row-major order.
func UniformNoise(width, height int, rng RNG) []float64 {
	noise := make([]float64, width*height)
	for i := range noise {
		noise[i] = rng.Float64()
	}
	return noise
}

// SimplexOptions configures fractal simplex noise.
type SimplexOptions struct {
	Octaves     int
	Frequency   float64 // Cycles per cell at the first octave
	Persistence float64 // Amplitude multiplier per octave
}

// SimplexNoise samples multi-octave simplex noise in [0,1] per cell,
// row-major. The noise seed is drawn from rng.
func SimplexNoise(width, height int, opts SimplexOptions, rng RNG) []float64 {
	noise := opensimplex.NewNormalized(int64(rng.Intn(math.MaxInt32)))
	octaves := max(1, opts.Octaves)

	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var total, maxVal float64
			amplitude, frequency := 1.0, opts.Frequency
			for i := 0; i < octaves; i++ {
				total += noise.Eval2(float64(x)*frequency, float64(y)*frequency) * amplitude
				maxVal += amplitude
				amplitude *= opts.Persistence
				frequency *= 2
			}
			out[y*width+x] = total / maxVal
		}
	}
	return out
}

// Smooth applies one pass of the binomial kernel with edge-replicated padding.
// The input is not modified.
func Smooth(src []float64, width, height int) []float64 {
	dst := make([]float64, len(src))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var acc float64
			for ky := -1; ky <= 1; ky++ {
				sy := clampInt(y+ky, 0, height-1)
				for kx := -1; kx <= 1; kx++ {
					sx := clampInt(x+kx, 0, width-1)
					acc += smoothKernel[ky+1][kx+1] * src[sy*width+sx]
				}
			}
			dst[y*width+x] = acc / 16
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
