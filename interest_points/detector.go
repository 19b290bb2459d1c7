// Package interestpoints detects Harris 3D interest points on triangle meshes.
package interestpoints

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jhonmgb/harris3d/mesh"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/spatialmath"
)

// ctxCheckInterval is how many vertices a worker processes between cancellation checks.
const ctxCheckInterval = 64

// Detector runs the interest point pipeline.
type Detector struct {
	cfg    Config
	logger logging.Logger
}

// NewDetector creates a new Detector with the given configuration. The configuration is
// expected to be validated by the caller. A nil logger disables logging.
func NewDetector(cfg *Config, logger logging.Logger) *Detector {
	if cfg == nil {
		c := DefaultConfig()
		cfg = &c
	}
	if logger == nil {
		logger = logging.NewBlankLogger("interestpoints")
	}
	return &Detector{cfg: *cfg, logger: logger}
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// FindInterestPoints returns the handles of the interest points of m in selection order.
// The only error it reports is cancellation of ctx.
func FindInterestPoints(
	ctx context.Context,
	m mesh.View,
	numRings int,
	harrisK float64,
	percentageOfPoints float64,
	mode SelectionMode,
) ([]int, error) {
	cfg := Config{
		NumRings:           numRings,
		HarrisK:            harrisK,
		PercentageOfPoints: percentageOfPoints,
		Mode:               mode,
	}
	result, err := NewDetector(&cfg, nil).Detect(ctx, m)
	if err != nil {
		return nil, err
	}
	return result.Indices, nil
}

// Detect computes every vertex response, then selects interest points once over the whole mesh.
func (d *Detector) Detect(ctx context.Context, m mesh.View) (*Result, error) {
	responses, err := d.Responses(ctx, m)
	if err != nil {
		return nil, err
	}

	points := mesh.Points(m)
	indices, err := Select(responses, points, mesh.Diagonal(m), d.cfg)
	if err != nil {
		return nil, fmt.Errorf("selection: %w", err)
	}

	result := &Result{
		Indices:   indices,
		Responses: make([]float64, len(responses)),
		Points:    make([]InterestPoint, len(indices)),
		Config:    d.cfg,
	}
	for i, vr := range responses {
		result.Responses[i] = vr.Response
	}
	for i, idx := range indices {
		n := responses[idx].Normal
		result.Points[i] = InterestPoint{
			Index:    idx,
			Response: responses[idx].Response,
			Pose:     spatialmath.NewPose(points[idx], &spatialmath.OrientationVector{OX: n.X, OY: n.Y, OZ: n.Z}),
		}
	}

	d.logger.Infof("Selected %d interest points from %d vertices (%s, rings=%d, k=%g, p=%g)",
		len(indices), m.VertexCount(), d.cfg.Mode, d.cfg.NumRings, d.cfg.HarrisK, d.cfg.PercentageOfPoints)
	return result, nil
}

// Responses computes the Harris response of every vertex. Vertices are processed in
// parallel; each worker writes only its own slots of the returned slice.
func (d *Detector) Responses(ctx context.Context, m mesh.View) ([]VertexResponse, error) {
	if m == nil {
		return nil, ErrNilMesh
	}
	n := m.VertexCount()
	out := make([]VertexResponse, n)
	if n == 0 {
		return out, nil
	}

	workers := d.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := n / (workers * 4)
	if chunk < 1 {
		chunk = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for v := start; v < end; v++ {
				if (v-start)%ctxCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				out[v] = analyzeVertex(m, v, d.cfg)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.logger.Debugf("Computed responses for %d vertices with %d workers", n, workers)
	return out, nil
}

// analyzeVertex runs neighbourhood extraction, surface fitting and the Harris response for v.
func analyzeVertex(m mesh.View, v int, cfg Config) VertexResponse {
	direct := DirectNeighbours(m, v, FacesOf(m, v))
	nb := neighbourhoodFromIndices(m, v, KRingNeighbourhood(m, v, cfg.NumRings, direct))
	fit, frame := FitNeighbourhood(nb)
	return VertexResponse{
		Index:      v,
		Response:   vertexResponse(fit, cfg.HarrisK),
		Normal:     frame[2],
		Neighbours: direct,
	}
}
