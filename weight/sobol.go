package weight

import "fmt"

const (
	// MaxDimension is the largest dimension the direction table supports.
	MaxDimension = 21

	// sobolBits is the number of direction-number bits. 52 keeps every
	// coordinate exactly representable as a float64.
	sobolBits = 52

	// MaxSeed is the last seed that yields a distinct point.
	MaxSeed = uint64(1)<<sobolBits - 1

	sobolScale = 1.0 / float64(uint64(1)<<sobolBits)
)

// primitive describes the primitive polynomial and initial direction
// numbers of one Sobol dimension (Joe & Kuo 2008). coeffs holds the inner
// coefficients a_1..a_{degree-1}, most significant first.
type primitive struct {
	degree uint
	coeffs uint64
	m      []uint64
}

// joeKuo covers dimensions 2..MaxDimension; the first dimension is the
// van der Corput sequence in base 2.
var joeKuo = [MaxDimension - 1]primitive{
	{1, 0, []uint64{1}},
	{2, 1, []uint64{1, 3}},
	{3, 1, []uint64{1, 3, 1}},
	{3, 2, []uint64{1, 1, 1}},
	{4, 1, []uint64{1, 1, 3, 3}},
	{4, 4, []uint64{1, 3, 5, 13}},
	{5, 2, []uint64{1, 1, 5, 5, 17}},
	{5, 4, []uint64{1, 1, 5, 5, 5}},
	{5, 7, []uint64{1, 1, 7, 11, 19}},
	{5, 11, []uint64{1, 1, 5, 1, 1}},
	{5, 13, []uint64{1, 1, 1, 3, 11}},
	{5, 14, []uint64{1, 3, 5, 5, 31}},
	{6, 1, []uint64{1, 3, 3, 9, 7, 49}},
	{6, 13, []uint64{1, 1, 1, 15, 21, 21}},
	{6, 16, []uint64{1, 3, 1, 13, 27, 49}},
	{6, 19, []uint64{1, 1, 1, 15, 7, 5}},
	{6, 22, []uint64{1, 3, 1, 15, 13, 25}},
	{6, 25, []uint64{1, 1, 5, 5, 19, 61}},
	{7, 1, []uint64{1, 3, 7, 11, 23, 15, 103}},
	{7, 4, []uint64{1, 3, 7, 13, 13, 15, 69}},
}

// directions[k][j] is direction number j+1 of dimension k, left-aligned in
// sobolBits bits. Computed once; never mutated.
var directions = buildDirections()

func buildDirections() [MaxDimension][sobolBits]uint64 {
	var v [MaxDimension][sobolBits]uint64
	for j := 0; j < sobolBits; j++ {
		v[0][j] = uint64(1) << (sobolBits - 1 - j)
	}
	for k := 1; k < MaxDimension; k++ {
		p := joeKuo[k-1]
		s := int(p.degree)
		for i := 1; i <= s; i++ {
			v[k][i-1] = p.m[i-1] << (sobolBits - i)
		}
		for i := s + 1; i <= sobolBits; i++ {
			x := v[k][i-s-1] ^ (v[k][i-s-1] >> s)
			for l := 1; l < s; l++ {
				if (p.coeffs>>(s-1-l))&1 == 1 {
					x ^= v[k][i-l-1]
				}
			}
			v[k][i-1] = x
		}
	}
	return v
}

// Sobol generates points of the Sobol low-discrepancy sequence in [0,1)^dim.
//
// The generator carries no cursor: the point for seed n is the XOR of the
// direction numbers selected by the bits of the gray code n^(n>>1), and the
// next seed is n+1. Callers thread the seed explicitly, so any seed range can
// be evaluated independently and in any order.
//
// Thread-safety: safe for concurrent use; it is read-only after NewSobol.
type Sobol struct {
	dim int
	v   [][sobolBits]uint64
}

// NewSobol returns a generator for dim dimensions.
func NewSobol(dim int) (*Sobol, error) {
	if dim < 1 || dim > MaxDimension {
		return nil, fmt.Errorf("%w: %d (supported: 1..%d)", ErrInvalidDimension, dim, MaxDimension)
	}
	return &Sobol{dim: dim, v: directions[:dim]}, nil
}

// Dim returns the dimension of generated points.
func (s *Sobol) Dim() int {
	return s.dim
}

// Point returns the point for seed and the seed of the following point.
func (s *Sobol) Point(seed uint64) ([]float64, uint64, error) {
	p := make([]float64, s.dim)
	next, err := s.PointAt(p, seed)
	if err != nil {
		return nil, seed, err
	}
	return p, next, nil
}

// PointAt is equivalent to Point, except the point is written into dst,
// which must have length Dim().
func (s *Sobol) PointAt(dst []float64, seed uint64) (uint64, error) {
	if len(dst) != s.dim {
		return seed, fmt.Errorf("%w: destination has %d coordinates, generator %d",
			ErrInvalidDimension, len(dst), s.dim)
	}
	if seed > MaxSeed {
		return seed, fmt.Errorf("%w: seed %d exceeds %d", ErrSeedExhausted, seed, MaxSeed)
	}

	gray := seed ^ (seed >> 1)
	for k := 0; k < s.dim; k++ {
		var x uint64
		for g, j := gray, 0; g != 0; g, j = g>>1, j+1 {
			if g&1 == 1 {
				x ^= s.v[k][j]
			}
		}
		dst[k] = float64(x) * sobolScale
	}
	return seed + 1, nil
}

// SobolPoint is the stateless form: the point of a dim-dimensional sequence
// at seed, and the next seed.
func SobolPoint(dim int, seed uint64) ([]float64, uint64, error) {
	s, err := NewSobol(dim)
	if err != nil {
		return nil, seed, err
	}
	return s.Point(seed)
}
