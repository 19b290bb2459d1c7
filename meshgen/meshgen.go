// Package meshgen builds closed triangle meshes of simple solids by running marching
// cubes over sdfx signed distance functions and welding the resulting triangle soup.
package meshgen

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/geo/r3"

	"github.com/jhonmgb/harris3d/mesh"
)

// ErrUnknownShape is returned for a shape name that is not supported.
var ErrUnknownShape = errors.New("unknown shape")

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 32

// weldTolerance is the quantisation step used to merge vertices, relative to the
// bounding box diagonal.
const weldTolerance = 1e-7

// Shape names a synthetic solid.
type Shape int

// Supported shapes.
const (
	ShapeBox Shape = iota
	ShapeCylinder
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// ParseShape parses a shape name, ignoring case.
func ParseShape(name string) (Shape, error) {
	for _, s := range []Shape{ShapeBox, ShapeCylinder, ShapeSphere} {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownShape)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Generate builds a shape whose largest extent is size.
func Generate(shape Shape, size float64, cells int) (*mesh.Mesh, error) {
	switch shape {
	case ShapeBox:
		return Box(size, cells)
	case ShapeCylinder:
		return Cylinder(size, size/2, cells)
	case ShapeSphere:
		return Sphere(size/2, cells)
	default:
		return nil, fmt.Errorf("shape %d: %w", shape, ErrUnknownShape)
	}
}

// Box builds a cube of the given edge length centred at the origin. Edges are rounded
// by a tenth of the edge length.
func Box(size float64, cells int) (*mesh.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, size*0.1)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	return FromSDF(s, cells)
}

// Cylinder builds a Z-aligned cylinder centred at the origin.
func Cylinder(height, radius float64, cells int) (*mesh.Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, radius*0.1)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return FromSDF(s, cells)
}

// Sphere builds a sphere centred at the origin.
func Sphere(radius float64, cells int) (*mesh.Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return FromSDF(s, cells)
}

// FromSDF tessellates s with uniform marching cubes and welds the triangles into an
// indexed mesh. Vertex handles follow the lexicographic order of the welded positions,
// so the output is identical across runs.
func FromSDF(s sdf.SDF3, cells int) (*mesh.Mesh, error) {
	if cells <= 0 {
		cells = DefaultCells
	}
	soup := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	bb := s.BoundingBox()
	step := bb.Max.Sub(bb.Min).Length() * weldTolerance
	if step == 0 || math.IsNaN(step) {
		step = weldTolerance
	}

	type key [3]int64
	quantise := func(p v3.Vec) key {
		return key{
			int64(math.Round(p.X / step)),
			int64(math.Round(p.Y / step)),
			int64(math.Round(p.Z / step)),
		}
	}

	first := make(map[key]r3.Vector)
	for _, tri := range soup {
		for j := 0; j < 3; j++ {
			p := tri[j]
			k := quantise(p)
			if _, ok := first[k]; !ok {
				first[k] = r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
			}
		}
	}

	keys := make([]key, 0, len(first))
	for k := range first {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		return compareVectors(first[a], first[b])
	})

	handle := make(map[key]int, len(keys))
	points := make([]r3.Vector, len(keys))
	for i, k := range keys {
		handle[k] = i
		points[i] = first[k]
	}

	triangles := make([][3]int, 0, len(soup))
	for _, tri := range soup {
		var t [3]int
		for j := 0; j < 3; j++ {
			t[j] = handle[quantise(tri[j])]
		}
		// Slivers collapse when their corners weld together.
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			continue
		}
		triangles = append(triangles, t)
	}

	return mesh.New(points, triangles)
}

// compareVectors orders vectors lexicographically by X, then Y, then Z.
func compareVectors(a, b r3.Vector) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}
