package harris3d

import (
	"context"
	"fmt"
	"os"

	ip "github.com/jhonmgb/harris3d/interest_points"
	"github.com/jhonmgb/harris3d/mesh"
	"github.com/jhonmgb/harris3d/meshio"
	"go.viam.com/rdk/logging"
)

// Options configures a single pipeline run.
type Options struct {
	Source Source
	Config ip.Config

	// PCDPath, when set, receives the selected interest points as an ASCII PCD file.
	PCDPath string
	// ReportPath, when set, receives the JSON report.
	ReportPath string
}

// Output is everything a pipeline run produced.
type Output struct {
	Mesh   *mesh.Mesh
	Result *ip.Result
	Report []byte
}

// Run executes the pipeline: load → detect → report → write outputs. The config is
// validated here, before any mesh is touched.
func Run(ctx context.Context, logger logging.Logger, opts Options) (*Output, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("harris3d")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	out := &Output{}
	steps := []struct {
		name string
		skip bool
		fn   func(context.Context) error
	}{
		{"Load", false, func(context.Context) error {
			m, err := LoadMesh(opts.Source)
			if err != nil {
				return err
			}
			out.Mesh = m
			logger.Infof("Loaded %s: %d vertices, %d faces", opts.Source, m.VertexCount(), m.FaceCount())
			return nil
		}},
		{"Detect", false, func(ctx context.Context) error {
			result, err := ip.NewDetector(&opts.Config, logger).Detect(ctx, out.Mesh)
			if err != nil {
				return err
			}
			out.Result = result
			return nil
		}},
		{"Report", false, func(context.Context) error {
			report, err := EncodeReport(out.Result, out.Mesh)
			if err != nil {
				return err
			}
			out.Report = report
			return nil
		}},
		{"WritePCD", opts.PCDPath == "", func(context.Context) error {
			return meshio.WritePCDFile(opts.PCDPath, out.Mesh, out.Result.Indices)
		}},
		{"WriteReport", opts.ReportPath == "", func(context.Context) error {
			return os.WriteFile(opts.ReportPath, out.Report, 0o644)
		}},
	}

	for _, step := range steps {
		if step.skip {
			continue
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		logger.Debugf("=== %s ===", step.name)
		if err := step.fn(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	logger.Infof("Found %s", summary(out.Mesh, out.Result))
	return out, nil
}
