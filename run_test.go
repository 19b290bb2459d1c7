package harris3d

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ip "github.com/jhonmgb/harris3d/interest_points"
	"github.com/jhonmgb/harris3d/meshgen"
	"go.viam.com/rdk/logging"
)

const squareOFF = `OFF
5 4 0
0 0 0
1 0 0
1 1 0
0 1 0
0.5 0.5 0.2
3 0 1 4
3 1 2 4
3 2 3 4
3 3 0 4
`

func TestLoadMesh_Sources(t *testing.T) {
	_, err := LoadMesh(Source{})
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = LoadMesh(Source{OFFPath: "a.off", Shape: "box"})
	assert.ErrorIs(t, err, ErrAmbiguousSource)

	_, err = LoadMesh(Source{TriPath: "a.tri"})
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = LoadMesh(Source{Shape: "torus"})
	assert.ErrorIs(t, err, meshgen.ErrUnknownShape)

	path := filepath.Join(t.TempDir(), "square.off")
	require.NoError(t, os.WriteFile(path, []byte(squareOFF), 0o600))
	m, err := LoadMesh(Source{OFFPath: path})
	require.NoError(t, err)
	assert.Equal(t, 5, m.VertexCount())
	assert.Equal(t, 4, m.FaceCount())

	m, err = LoadMesh(Source{Shape: "sphere", Size: 2, Cells: 10})
	require.NoError(t, err)
	assert.Greater(t, m.VertexCount(), 0)
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := ip.DefaultConfig()
	cfg.Mode = ip.SelectionClustering
	cfg.PercentageOfPoints = 0.2

	out, err := Run(context.Background(), logging.NewTestLogger(t), Options{
		Source:     Source{Shape: "box", Size: 2, Cells: 16},
		Config:     cfg,
		PCDPath:    filepath.Join(dir, "points.pcd"),
		ReportPath: filepath.Join(dir, "report.json"),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	require.NotEmpty(t, out.Result.Indices)
	t.Logf("selected %v", out.Result.Indices)

	_, err = os.Stat(filepath.Join(dir, "points.pcd"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	assert.Equal(t, out.Report, data)

	var report struct {
		Config struct {
			NumRings      float64 `json:"num_rings"`
			SelectionMode string  `json:"selection_mode"`
		} `json:"config"`
		Mesh struct {
			Vertices float64 `json:"vertices"`
		} `json:"mesh"`
		InterestPoints []struct {
			Index    float64 `json:"index"`
			Position struct {
				X, Y, Z float64
			} `json:"position"`
		} `json:"interest_points"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, float64(cfg.NumRings), report.Config.NumRings)
	assert.Equal(t, "clustering", report.Config.SelectionMode)
	assert.Equal(t, float64(out.Mesh.VertexCount()), report.Mesh.Vertices)
	require.Len(t, report.InterestPoints, len(out.Result.Indices))
	for i, p := range report.InterestPoints {
		idx := out.Result.Indices[i]
		assert.Equal(t, float64(idx), p.Index)
		assert.InDelta(t, out.Mesh.VertexAt(idx).Point.X, p.Position.X, 1e-9)
	}
}

func TestRun_BoxCornersRankFirst(t *testing.T) {
	const size = 2.0
	cfg := ip.DefaultConfig()

	out, err := Run(context.Background(), logging.NewTestLogger(t), Options{
		Source: Source{Shape: "box", Size: size, Cells: 24},
		Config: cfg,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Result.Indices)

	// Faces are flat and edges curve in one direction only, so the strongest response sits
	// in a corner region.
	top := out.Mesh.VertexAt(out.Result.Indices[0]).Point
	t.Logf("top interest point %v response %g", top, out.Result.Responses[out.Result.Indices[0]])
	for _, c := range []float64{top.X, top.Y, top.Z} {
		assert.Greater(t, math.Abs(c), 0.2*size)
	}
}

func TestRun_ValidatesBeforeLoading(t *testing.T) {
	cfg := ip.DefaultConfig()
	cfg.NumRings = 1
	_, err := Run(context.Background(), nil, Options{Config: cfg})
	assert.ErrorIs(t, err, ip.ErrInvalidRings)

	_, err = Run(context.Background(), nil, Options{Config: ip.DefaultConfig()})
	assert.ErrorIs(t, err, ErrNoSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, nil, Options{Source: Source{Shape: "sphere"}, Config: ip.DefaultConfig()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare_IdenticalSources(t *testing.T) {
	src := Source{Shape: "cylinder", Size: 2, Cells: 16}
	cfg := ip.DefaultConfig()
	cfg.PercentageOfPoints = 0.05

	c, err := Compare(context.Background(), logging.NewTestLogger(t), cfg, src, src, 0)
	require.NoError(t, err)
	require.NotEmpty(t, c.Reference.Indices)
	assert.Equal(t, c.Reference.Indices, c.Other.Indices)
	assert.Equal(t, 1.0, c.Repeatability)
	assert.Greater(t, c.Tolerance, 0.0)
	assert.Len(t, c.Matches, len(c.Reference.Indices))
}

func TestEncodeReport_NonFiniteResponse(t *testing.T) {
	m, err := LoadMesh(Source{Shape: "sphere", Size: 1, Cells: 8})
	require.NoError(t, err)
	result, err := ip.NewDetector(nil, nil).Detect(context.Background(), m)
	require.NoError(t, err)
	require.NotEmpty(t, result.Points)
	result.Points[0].Response = math.Inf(-1)

	data, err := EncodeReport(result, m)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal(data, &report))
	first := report["interest_points"].([]any)[0].(map[string]any)
	assert.Nil(t, first["response"])
}
