package interestpoints

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter(t *testing.T) {
	pts := []r3.Vector{{X: 1, Y: 2, Z: 3}, {X: 3, Y: 2, Z: 1}, {X: 2, Y: 5, Z: 2}}
	centered, centroid := Center(pts)
	assert.InDelta(t, 2.0, centroid.X, 1e-12)
	assert.InDelta(t, 3.0, centroid.Y, 1e-12)
	assert.InDelta(t, 2.0, centroid.Z, 1e-12)

	var sum r3.Vector
	for i, c := range centered {
		sum = sum.Add(c)
		assert.Equal(t, pts[i].Sub(centroid), c)
	}
	assert.InDelta(t, 0.0, sum.Norm(), 1e-12)
}

func TestRotateToFitPlane_PlanarNeighbourhood(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(11))
	// Plane through (4, -2, 7) spanned by two arbitrary directions.
	u := r3.Vector{X: 1, Y: 2, Z: -0.5}.Normalize()
	w := u.Cross(r3.Vector{X: 0.3, Y: -1, Z: 2}).Normalize()
	origin := r3.Vector{X: 4, Y: -2, Z: 7}

	pts := make([]r3.Vector, 40)
	for i := range pts {
		pts[i] = origin.Add(u.Mul(rng.Float64()*10 - 5)).Add(w.Mul(rng.Float64()*10 - 5))
	}

	centered, _ := Center(pts)
	rotated, frame := RotateToFitPlane(centered, 7)
	for i, p := range rotated {
		assert.InDelta(t, 0.0, p.Z, 1e-9, "point %d", i)
	}

	normal := u.Cross(w).Normalize()
	assert.InDelta(t, 1.0, math.Abs(frame[2].Dot(normal)), 1e-9)
}

func TestRotateToFitPlane_FrameIsOrthonormal(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(5))
	pts := make([]r3.Vector, 30)
	for i := range pts {
		x, y := rng.Float64()*2-1, rng.Float64()*2-1
		pts[i] = r3.Vector{X: x, Y: y, Z: 0.4*x*x - 0.7*y*y + 0.1*rng.Float64()}
	}
	centered, _ := Center(pts)

	for analyzed := range pts {
		rotated, frame := RotateToFitPlane(centered, analyzed)
		for a := 0; a < 3; a++ {
			assert.InDelta(t, 1.0, frame[a].Norm(), 1e-9)
			for b := a + 1; b < 3; b++ {
				assert.InDelta(t, 0.0, frame[a].Dot(frame[b]), 1e-9)
			}
		}
		// The analysed point never ends up below the fitted plane.
		assert.GreaterOrEqual(t, rotated[analyzed].Z, 0.0)
		// Rotation preserves distances to the centroid.
		assert.InDelta(t, centered[analyzed].Norm(), rotated[analyzed].Norm(), 1e-9)
	}
}

func TestFitQuadraticSurface_RecoversCoefficients(t *testing.T) {
	p := [6]float64{0.5, -0.3, 0.8, 0.1, -0.2, 0.05}
	surface := func(x, y float64) float64 {
		return p[0]*x*x + p[1]*x*y + p[2]*y*y + p[3]*x + p[4]*y + p[5]
	}

	// The analysed point sits at the in-plane origin.
	pts := []r3.Vector{{X: 0, Y: 0, Z: surface(0, 0)}}
	for i := -2; i <= 2; i++ {
		for j := -2; j <= 2; j++ {
			if i == 0 && j == 0 {
				continue
			}
			x, y := float64(i)*0.5, float64(j)*0.5
			pts = append(pts, r3.Vector{X: x, Y: y, Z: surface(x, y)})
		}
	}

	fit := FitQuadraticSurface(pts, 0)
	want := [6]float64{2 * p[0], p[1], 2 * p[2], p[3], p[4], p[5]}
	for i := range want {
		assert.InDelta(t, want[i], fit.Coefficients[i], 1e-9, "p%d", i+1)
	}
}

func TestFitQuadraticSurface_ShiftsToAnalysedPoint(t *testing.T) {
	// z = x² around (1, 1): in coordinates centred on (1, 1) the surface is
	// z = x'² + 2x' + 1.
	var pts []r3.Vector
	for i := 0; i <= 4; i++ {
		for j := 0; j <= 4; j++ {
			x, y := float64(i)*0.5, float64(j)*0.5
			pts = append(pts, r3.Vector{X: x, Y: y, Z: x * x})
		}
	}
	analyzed := 2*5 + 2 // (1, 1)
	require.Equal(t, r3.Vector{X: 1, Y: 1, Z: 1}, pts[analyzed])

	fit := FitQuadraticSurface(pts, analyzed)
	want := [6]float64{2, 0, 0, 2, 0, 1}
	for i := range want {
		assert.InDelta(t, want[i], fit.Coefficients[i], 1e-9, "p%d", i+1)
	}
}

func TestFitQuadraticSurface_DegenerateInputs(t *testing.T) {
	cases := map[string][]r3.Vector{
		"single point": {{X: 0, Y: 0, Z: 1}},
		"triangle":     {{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0.5}, {X: 0, Y: 1, Z: -0.5}},
		"collinear":    {{X: 0}, {X: 1, Z: 1}, {X: 2, Z: 2}, {X: 3, Z: 3}, {X: 4, Z: 4}, {X: 5, Z: 5}, {X: 6, Z: 6}},
		"coincident":   {{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}},
	}
	for name, pts := range cases {
		t.Run(name, func(t *testing.T) {
			fit := FitQuadraticSurface(pts, 0)
			for i, c := range fit.Coefficients {
				assert.False(t, math.IsNaN(c) || math.IsInf(c, 0), "p%d = %v", i+1, c)
			}
			nbFit, frame := FitNeighbourhood(Neighborhood{Indices: make([]int, len(pts)), Points: pts})
			for i, c := range nbFit.Coefficients {
				assert.False(t, math.IsNaN(c) || math.IsInf(c, 0), "p%d = %v", i+1, c)
			}
			assert.InDelta(t, 1.0, frame[2].Norm(), 1e-9)
		})
	}
}

func TestFitQuadraticSurface_MinimumNormOnUnderdetermined(t *testing.T) {
	// A plane z = 1 through three points: the minimum-norm solution has no quadratic terms.
	pts := []r3.Vector{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}}
	fit := FitQuadraticSurface(pts, 0)
	var norm float64
	for _, c := range fit.Coefficients {
		norm += c * c
	}
	// Any exact solution satisfies p6 = 1 at the analysed point; the minimum-norm one
	// spreads the remaining constraints with the smallest length.
	assert.LessOrEqual(t, math.Sqrt(norm), 1.0+1e-9)
	for i, pt := range pts {
		x, y := pt.X, pt.Y
		z := fit.Coefficients[0]/2*x*x + fit.Coefficients[1]*x*y + fit.Coefficients[2]/2*y*y +
			fit.Coefficients[3]*x + fit.Coefficients[4]*y + fit.Coefficients[5]
		assert.InDelta(t, pt.Z, z, 1e-9, "point %d", i)
	}
}
