package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhonmgb/harris3d"
	ip "github.com/jhonmgb/harris3d/interest_points"
	"github.com/jhonmgb/harris3d/internal/params"

	"go.viam.com/rdk/logging"
)

func main() {
	offPath := flag.String("off", "", "path to an OFF mesh")
	triPath := flag.String("tri", "", "path to a TRI file (1-based triangles); requires -vert")
	vertPath := flag.String("vert", "", "path to a VERT file; requires -tri")
	shape := flag.String("shape", "", "generate a shape instead of reading a file: box, cylinder, sphere")
	size := flag.Float64("size", 1, "largest extent of a generated shape")
	cells := flag.Int("cells", 0, "marching cubes resolution of a generated shape (0 = default)")

	paramsPath := flag.String("params", "", "JSON parameter file (optional)")
	rings := flag.Int("rings", 0, "neighbourhood ring depth, > 1 (overrides params file)")
	harrisK := flag.Float64("k", 0, "Harris constant in (0, 0.4] (overrides params file)")
	percentage := flag.Float64("percentage", 0, "fraction of vertices, or of the diagonal when clustering (overrides params file)")
	mode := flag.String("mode", "", "selection mode: fraction or clustering (overrides params file)")
	workers := flag.Int("workers", -1, "per-vertex workers, 0 = all CPUs (overrides params file)")

	pcdPath := flag.String("pcd", "", "write selected points to this PCD file")
	reportPath := flag.String("report", "", "write a JSON report to this file")
	compareOFF := flag.String("compare-off", "", "compare repeatability against this OFF mesh")
	tolerance := flag.Float64("tolerance", 0, "match distance for -compare-off (0 = 1% of diagonal)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := logging.NewLogger("harris3d-cli")
	if *debug {
		logger = logging.NewDebugLogger("harris3d-cli")
	}

	cfg := ip.DefaultConfig()
	if *paramsPath != "" {
		loaded, err := params.Load(*paramsPath)
		if err != nil {
			logger.Fatal(err)
		}
		cfg = loaded
	}
	if *rings != 0 {
		cfg.NumRings = *rings
	}
	if *harrisK != 0 {
		cfg.HarrisK = *harrisK
	}
	if *percentage != 0 {
		cfg.PercentageOfPoints = *percentage
	}
	if *mode != "" {
		m, err := ip.ParseSelectionMode(*mode)
		if err != nil {
			logger.Fatal(err)
		}
		cfg.Mode = m
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid parameters: %v", err)
	}

	src := harris3d.Source{
		OFFPath:  *offPath,
		TriPath:  *triPath,
		VertPath: *vertPath,
		Shape:    *shape,
		Size:     *size,
		Cells:    *cells,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *compareOFF != "" {
		c, err := harris3d.Compare(ctx, logger, cfg, src, harris3d.Source{OFFPath: *compareOFF}, *tolerance)
		if err != nil {
			logger.Fatal(err)
		}
		logger.Infof("Repeatability: %.2f%%", c.Repeatability*100)
		return
	}

	out, err := harris3d.Run(ctx, logger, harris3d.Options{
		Source:     src,
		Config:     cfg,
		PCDPath:    *pcdPath,
		ReportPath: *reportPath,
	})
	if err != nil {
		logger.Fatal(err)
	}

	for i, p := range out.Result.Points {
		pos := p.Pose.Point()
		logger.Infof("  %d: vertex %d response=%.6g pos=(%.4f, %.4f, %.4f)",
			i, p.Index, p.Response, pos.X, pos.Y, pos.Z)
	}
}
