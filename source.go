// Package harris3d wires mesh loading, Harris 3D interest point detection and result
// output into a single pipeline.
package harris3d

import (
	"errors"
	"fmt"

	ip "github.com/jhonmgb/harris3d/interest_points"
	"github.com/jhonmgb/harris3d/mesh"
	"github.com/jhonmgb/harris3d/meshgen"
	"github.com/jhonmgb/harris3d/meshio"
)

var (
	// ErrNoSource is returned when a Source names no mesh.
	ErrNoSource = errors.New("no mesh source given")

	// ErrAmbiguousSource is returned when a Source names more than one mesh.
	ErrAmbiguousSource = errors.New("more than one mesh source given")
)

// Source selects where a mesh comes from: an OFF file, a TRI/VERT file pair, or a
// generated shape.
type Source struct {
	OFFPath  string
	TriPath  string
	VertPath string

	Shape string
	Size  float64 // Largest extent of a generated shape; defaults to 1
	Cells int     // Marching cubes resolution; defaults to meshgen.DefaultCells
}

func (s Source) String() string {
	switch {
	case s.OFFPath != "":
		return s.OFFPath
	case s.TriPath != "" || s.VertPath != "":
		return s.TriPath + "+" + s.VertPath
	case s.Shape != "":
		return "shape:" + s.Shape
	default:
		return "<none>"
	}
}

// LoadMesh reads or generates the mesh a Source names.
func LoadMesh(s Source) (*mesh.Mesh, error) {
	var set int
	if s.OFFPath != "" {
		set++
	}
	if s.TriPath != "" || s.VertPath != "" {
		set++
	}
	if s.Shape != "" {
		set++
	}
	switch {
	case set == 0:
		return nil, ErrNoSource
	case set > 1:
		return nil, fmt.Errorf("%s: %w", s, ErrAmbiguousSource)
	}

	switch {
	case s.OFFPath != "":
		return meshio.ReadOFFFile(s.OFFPath)
	case s.Shape != "":
		shape, err := meshgen.ParseShape(s.Shape)
		if err != nil {
			return nil, err
		}
		size := s.Size
		if size <= 0 {
			size = 1
		}
		return meshgen.Generate(shape, size, s.Cells)
	default:
		if s.TriPath == "" || s.VertPath == "" {
			return nil, fmt.Errorf("TRI and VERT files must be given together: %w", ErrNoSource)
		}
		return meshio.ReadTriVertFiles(s.TriPath, s.VertPath)
	}
}

// summary is a one-line description of a detection, used in log output.
func summary(m mesh.View, r *ip.Result) string {
	return fmt.Sprintf("%d interest points on %d vertices / %d faces (%s, rings=%d, k=%g, pct=%g)",
		len(r.Indices), m.VertexCount(), m.FaceCount(), r.Config.Mode, r.Config.NumRings,
		r.Config.HarrisK, r.Config.PercentageOfPoints)
}
