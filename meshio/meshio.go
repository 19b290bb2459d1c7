// Package meshio reads triangle meshes from OFF and TRI/VERT files and writes
// selected vertices as point clouds.
package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/jhonmgb/harris3d/mesh"
	"go.viam.com/rdk/pointcloud"
)

var (
	// ErrBadHeader is returned when an OFF file does not start with a valid header.
	ErrBadHeader = errors.New("invalid OFF header")

	// ErrNonTriangularFace is returned when a face does not have exactly three vertices.
	ErrNonTriangularFace = errors.New("face is not a triangle")

	// ErrTruncated is returned when a file ends before all declared elements are read.
	ErrTruncated = errors.New("unexpected end of mesh file")

	// ErrBadLine is returned when a line cannot be parsed.
	ErrBadLine = errors.New("malformed line")
)

// lineReader yields non-empty, comment-stripped lines split into fields.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &lineReader{sc: sc}
}

// next returns the fields of the next meaningful line, or nil at EOF.
func (lr *lineReader) next() ([]string, error) {
	for lr.sc.Scan() {
		lr.line++
		text := lr.sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		if fields := strings.Fields(text); len(fields) > 0 {
			return fields, nil
		}
	}
	if err := lr.sc.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func parseFloats(fields []string, line int) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q: %w", line, f, ErrBadLine)
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(fields []string, line int) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q: %w", line, f, ErrBadLine)
		}
		out[i] = v
	}
	return out, nil
}

func parsePoint(fields []string, line int) (r3.Vector, error) {
	if len(fields) < 3 {
		return r3.Vector{}, fmt.Errorf("line %d: expected x y z: %w", line, ErrBadLine)
	}
	xyz, err := parseFloats(fields[:3], line)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// ReadOFF parses an OFF mesh. Counts may follow the "OFF" keyword on the same line.
func ReadOFF(r io.Reader) (*mesh.Mesh, error) {
	lr := newLineReader(r)

	fields, err := lr.next()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(fields) == 0 || fields[0] != "OFF" {
		return nil, ErrBadHeader
	}
	counts := fields[1:]
	if len(counts) == 0 {
		if counts, err = lr.next(); err != nil {
			return nil, fmt.Errorf("reading counts: %w", err)
		}
	}
	if len(counts) < 2 {
		return nil, fmt.Errorf("line %d: expected vertex and face counts: %w", lr.line, ErrBadHeader)
	}
	n, err := parseInts(counts[:2], lr.line)
	if err != nil {
		return nil, err
	}
	numVertices, numFaces := n[0], n[1]
	if numVertices < 0 || numFaces < 0 {
		return nil, fmt.Errorf("negative counts %d %d: %w", numVertices, numFaces, ErrBadHeader)
	}

	points := make([]r3.Vector, 0, numVertices)
	for i := 0; i < numVertices; i++ {
		fields, err := lr.next()
		if err != nil {
			return nil, err
		}
		if fields == nil {
			return nil, fmt.Errorf("vertex %d of %d: %w", i, numVertices, ErrTruncated)
		}
		p, err := parsePoint(fields, lr.line)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	triangles := make([][3]int, 0, numFaces)
	for i := 0; i < numFaces; i++ {
		fields, err := lr.next()
		if err != nil {
			return nil, err
		}
		if fields == nil {
			return nil, fmt.Errorf("face %d of %d: %w", i, numFaces, ErrTruncated)
		}
		idx, err := parseInts(fields[:1], lr.line)
		if err != nil {
			return nil, err
		}
		// Trailing per-face colour values are ignored.
		if idx[0] != 3 || len(fields) < 4 {
			return nil, fmt.Errorf("line %d: %d vertices: %w", lr.line, idx[0], ErrNonTriangularFace)
		}
		tri, err := parseInts(fields[1:4], lr.line)
		if err != nil {
			return nil, err
		}
		triangles = append(triangles, [3]int{tri[0], tri[1], tri[2]})
	}

	m, err := mesh.New(points, triangles)
	if err != nil {
		return nil, fmt.Errorf("building mesh: %w", err)
	}
	return m, nil
}

// ReadOFFFile reads an OFF mesh from path.
func ReadOFFFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OFF file: %w", err)
	}
	defer f.Close()

	m, err := ReadOFF(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadTriVert parses a VERT file (one "x y z" per line) and a TRI file (one 1-based
// triangle per line).
func ReadTriVert(tri, vert io.Reader) (*mesh.Mesh, error) {
	var points []r3.Vector
	vr := newLineReader(vert)
	for {
		fields, err := vr.next()
		if err != nil {
			return nil, fmt.Errorf("reading vertices: %w", err)
		}
		if fields == nil {
			break
		}
		p, err := parsePoint(fields, vr.line)
		if err != nil {
			return nil, fmt.Errorf("vert: %w", err)
		}
		points = append(points, p)
	}

	var triangles [][3]int
	tr := newLineReader(tri)
	for {
		fields, err := tr.next()
		if err != nil {
			return nil, fmt.Errorf("reading triangles: %w", err)
		}
		if fields == nil {
			break
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("tri line %d: %d vertices: %w", tr.line, len(fields), ErrNonTriangularFace)
		}
		idx, err := parseInts(fields, tr.line)
		if err != nil {
			return nil, fmt.Errorf("tri: %w", err)
		}
		triangles = append(triangles, [3]int{idx[0] - 1, idx[1] - 1, idx[2] - 1})
	}

	m, err := mesh.New(points, triangles)
	if err != nil {
		return nil, fmt.Errorf("building mesh: %w", err)
	}
	return m, nil
}

// ReadTriVertFiles reads a TRI/VERT mesh pair from disk.
func ReadTriVertFiles(triPath, vertPath string) (*mesh.Mesh, error) {
	tri, err := os.Open(triPath)
	if err != nil {
		return nil, fmt.Errorf("opening TRI file: %w", err)
	}
	defer tri.Close()

	vert, err := os.Open(vertPath)
	if err != nil {
		return nil, fmt.Errorf("opening VERT file: %w", err)
	}
	defer vert.Close()

	return ReadTriVert(tri, vert)
}

// WritePCD writes the listed vertices of m as an ASCII PCD point cloud.
func WritePCD(w io.Writer, m mesh.View, indices []int) error {
	cloud := pointcloud.NewBasicEmpty()
	if len(indices) > 0 {
		var err error
		if cloud, err = mesh.ToPointCloud(m, indices...); err != nil {
			return err
		}
	}
	if err := pointcloud.ToPCD(cloud, w, pointcloud.PCDAscii); err != nil {
		return fmt.Errorf("encoding PCD: %w", err)
	}
	return nil
}

// WritePCDFile writes the listed vertices of m to a PCD file at path.
func WritePCDFile(path string, m mesh.View, indices []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating PCD file: %w", err)
	}
	if err := WritePCD(f, m, indices); err != nil {
		//nolint:errcheck
		f.Close()
		return err
	}
	return f.Close()
}
