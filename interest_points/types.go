package interestpoints

import (
	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"
)

// Neighborhood is the point cloud around one analysed vertex.
type Neighborhood struct {
	Indices []int       // Global vertex handles, ascending
	Points  []r3.Vector // Points[i] is the position of Indices[i]
	Center  int         // Position of the analysed vertex within Indices
}

// SurfaceFit holds the coefficients of z = p1·x² + p2·xy + p3·y² + p4·x + p5·y + p6
// in the analysed vertex's local frame. p1 and p3 are stored doubled.
type SurfaceFit struct {
	Coefficients [6]float64
}

// HarrisMatrix is the symmetric 2x2 matrix [[A, C], [C, B]].
type HarrisMatrix struct {
	A, B, C float64
}

// Candidate is a vertex competing for selection.
type Candidate struct {
	Index    int
	Response float64
}

// VertexResponse is the per-vertex output of the response stage.
type VertexResponse struct {
	Index      int
	Response   float64
	Normal     r3.Vector // Local frame z axis
	Neighbours []int     // Direct neighbours, ascending
}

// InterestPoint is a selected vertex with its position and surface orientation.
type InterestPoint struct {
	Index    int
	Response float64
	Pose     spatialmath.Pose
}

// Result is the output of a detection run.
type Result struct {
	Indices   []int     // Selected vertex handles in selection order
	Responses []float64 // Harris response of every vertex
	Points    []InterestPoint
	Config    Config
}
