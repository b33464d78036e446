package shared

import "math"

// Noise2D returns a deterministic gradient noise value in [0, 1] for the
// given coordinates and seed. The same inputs always produce the same
// output, so generated terrain is reproducible across runs.
func Noise2D(x, y float64, seed int) float64 {
	permute := func(i int) int {
		return ((i*34)+seed*6547+12345)%289 + 289
	}

	ix := int(math.Floor(x))
	iy := int(math.Floor(y))
	fx := x - float64(ix)
	fy := y - float64(iy)

	fade := func(t float64) float64 {
		return t * t * t * (t*(t*6-15) + 10)
	}

	a := permute(ix) + permute(iy)
	b := permute(ix+1) + permute(iy)
	c := permute(ix) + permute(iy+1)
	d := permute(ix+1) + permute(iy+1)

	getGrad := func(h int, x, y float64) float64 {
		h1 := h % 4
		var u, v float64
		if h1 < 2 {
			u, v = x, y
		} else {
			u, v = y, x
		}
		if h1&1 != 0 {
			u = -u
		}
		if h1&2 != 0 {
			v = -v * 2
		} else {
			v = v * 2
		}
		return u + v
	}

	ga := getGrad(a, fx, fy)
	gb := getGrad(b, fx-1, fy)
	gc := getGrad(c, fx, fy-1)
	gd := getGrad(d, fx-1, fy-1)

	u := fade(fx)
	v := fade(fy)

	result := (1-u)*((1-v)*ga+v*gc) + u*((1-v)*gb+v*gd)

	return Clamp((result+1)*0.5, 0, 1)
}

// FBM layers Noise2D octaves with the given lacunarity and persistence and
// normalizes the sum back to [0, 1].
func FBM(x, y float64, octaves int, lacunarity, persistence float64, seed int) float64 {
	var total float64
	frequency := 1.0
	amplitude := 1.0
	var maxValue float64

	for i := 0; i < octaves; i++ {
		total += Noise2D(x*frequency, y*frequency, seed+i*1000) * amplitude
		maxValue += amplitude

		frequency *= lacunarity
		amplitude *= persistence
	}

	return total / maxValue
}
