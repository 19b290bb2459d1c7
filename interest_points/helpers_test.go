package interestpoints

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"

	"github.com/jhonmgb/harris3d/mesh"
)

// heightField triangulates an nx×ny grid with the given spacing; z = f(x, y).
// Vertex (i, j) has handle j*nx + i.
func heightField(t *testing.T, nx, ny int, spacing float64, f func(x, y float64) float64) *mesh.Mesh {
	t.Helper()
	points := make([]r3.Vector, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x := float64(i) * spacing
			y := float64(j) * spacing
			points = append(points, r3.Vector{X: x, Y: y, Z: f(x, y)})
		}
	}
	var tris [][3]int
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			v00 := j*nx + i
			v10 := v00 + 1
			v01 := v00 + nx
			v11 := v01 + 1
			tris = append(tris, [3]int{v00, v10, v11}, [3]int{v00, v11, v01})
		}
	}
	m, err := mesh.New(points, tris)
	require.NoError(t, err)
	return m
}

// gaussianBump returns a height function with a bump of the given height and width at (cx, cy).
func gaussianBump(cx, cy, height, width float64) func(x, y float64) float64 {
	return func(x, y float64) float64 {
		dx, dy := x-cx, y-cy
		return height * math.Exp(-(dx*dx+dy*dy)/(2*width*width))
	}
}

func singleTriangle(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.New(
		[]r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[][3]int{{0, 1, 2}},
	)
	require.NoError(t, err)
	return m
}

// ballByGraphDistance returns the vertices within r edges of v, ascending.
func ballByGraphDistance(m mesh.View, v, r int) []int {
	dist := map[int]int{v: 0}
	queue := []int{v}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if dist[u] == r {
			continue
		}
		for _, w := range DirectNeighbours(m, u, FacesOf(m, u)) {
			if _, ok := dist[w]; !ok {
				dist[w] = dist[u] + 1
				queue = append(queue, w)
			}
		}
	}
	out := make([]int, 0, len(dist))
	for i := 0; i < m.VertexCount(); i++ {
		if _, ok := dist[i]; ok {
			out = append(out, i)
		}
	}
	return out
}
