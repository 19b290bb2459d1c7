// Package mesh holds the read-only triangle mesh the interest point engine runs over.
// Vertices and faces live in contiguous slices owned by the Mesh and are referenced
// by integer handle.
package mesh

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/pointcloud"
)

var (
	// ErrVertexOutOfRange is returned when a face references a vertex that does not exist.
	ErrVertexOutOfRange = errors.New("face references vertex out of range")

	// ErrDegenerateFace is returned when a face repeats one of its vertex indices.
	ErrDegenerateFace = errors.New("face repeats a vertex")
)

// View is the minimal read-only contract the engine needs from a mesh.
type View interface {
	VertexCount() int
	FaceCount() int
	VertexAt(i int) Vertex
	FaceAt(i int) Face
}

// Vertex is a mesh vertex and the faces incident to it.
type Vertex struct {
	Index int
	Point r3.Vector
	Faces []int // Ascending, unique.
}

// Face is a triangle referencing three vertex handles.
type Face struct {
	Index    int
	Vertices [3]int
}

// Mesh owns vertex and face storage. It must not be mutated while an engine runs on it.
type Mesh struct {
	vertices []Vertex
	faces    []Face
}

var _ View = (*Mesh)(nil)

// New builds a mesh from vertex positions and triangles, deriving every vertex's
// incident-face set.
func New(points []r3.Vector, triangles [][3]int) (*Mesh, error) {
	m := &Mesh{
		vertices: make([]Vertex, len(points)),
		faces:    make([]Face, len(triangles)),
	}
	for i, p := range points {
		m.vertices[i] = Vertex{Index: i, Point: p}
	}
	for fi, tri := range triangles {
		for _, vi := range tri {
			if vi < 0 || vi >= len(points) {
				return nil, fmt.Errorf("face %d: vertex %d: %w", fi, vi, ErrVertexOutOfRange)
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			return nil, fmt.Errorf("face %d %v: %w", fi, tri, ErrDegenerateFace)
		}
		m.faces[fi] = Face{Index: fi, Vertices: tri}
		// Faces are visited in ascending order, so each list stays sorted.
		for _, vi := range tri {
			m.vertices[vi].Faces = append(m.vertices[vi].Faces, fi)
		}
	}
	return m, nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.faces)
}

// VertexAt returns the vertex with handle i.
func (m *Mesh) VertexAt(i int) Vertex {
	return m.vertices[i]
}

// FaceAt returns the face with handle i.
func (m *Mesh) FaceAt(i int) Face {
	return m.faces[i]
}

// Points returns a copy of the vertex positions, indexed by vertex handle.
func (m *Mesh) Points() []r3.Vector {
	return Points(m)
}

// Points returns the vertex positions of any view, indexed by vertex handle.
func Points(v View) []r3.Vector {
	pts := make([]r3.Vector, v.VertexCount())
	for i := range pts {
		pts[i] = v.VertexAt(i).Point
	}
	return pts
}

// Bounds returns the per-axis minimum and maximum corners of the vertex positions.
func Bounds(v View) (lo, hi r3.Vector) {
	if v.VertexCount() == 0 {
		return r3.Vector{}, r3.Vector{}
	}
	lo = r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < v.VertexCount(); i++ {
		p := v.VertexAt(i).Point
		lo = r3.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

// Diagonal returns the length of the bounding box diagonal.
func Diagonal(v View) float64 {
	lo, hi := Bounds(v)
	return hi.Sub(lo).Norm()
}

// Bounds returns the per-axis minimum and maximum corners of the mesh.
func (m *Mesh) Bounds() (lo, hi r3.Vector) {
	return Bounds(m)
}

// Diagonal returns the length of the mesh's bounding box diagonal.
func (m *Mesh) Diagonal() float64 {
	return Diagonal(m)
}

// ToPointCloud converts the listed vertices of a view into a point cloud. Each point carries
// its vertex handle as value data. With no indices every vertex is included.
// Coincident vertices collapse to a single point; the lowest handle wins.
func ToPointCloud(v View, indices ...int) (pointcloud.PointCloud, error) {
	if len(indices) == 0 {
		indices = make([]int, v.VertexCount())
		for i := range indices {
			indices[i] = i
		}
	}
	order := append([]int(nil), indices...)
	// Insert in descending handle order so the lowest handle of a coincident group is kept.
	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	cloud := pointcloud.NewBasicPointCloud(len(order))
	for _, i := range order {
		if i < 0 || i >= v.VertexCount() {
			return nil, fmt.Errorf("vertex %d: %w", i, ErrVertexOutOfRange)
		}
		if err := cloud.Set(v.VertexAt(i).Point, pointcloud.NewValueData(i)); err != nil {
			return nil, fmt.Errorf("add vertex %d: %w", i, err)
		}
	}
	return cloud, nil
}

// ToPointCloud converts every vertex of the mesh into a point cloud.
func (m *Mesh) ToPointCloud() (pointcloud.PointCloud, error) {
	return ToPointCloud(m)
}
