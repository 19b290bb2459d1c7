package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhonmgb/harris3d"
	ip "github.com/jhonmgb/harris3d/interest_points"

	"go.viam.com/rdk/logging"
)

// Runs both selection modes over every synthetic shape and logs the results.
func main() {
	cells := flag.Int("cells", 32, "marching cubes resolution")
	flag.Parse()

	logger := logging.NewDebugLogger("harris3d")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fraction := ip.DefaultConfig()
	clustering := ip.DefaultConfig()
	clustering.Mode = ip.SelectionClustering
	clustering.PercentageOfPoints = 0.1

	for _, shape := range []string{"box", "cylinder", "sphere"} {
		for _, cfg := range []ip.Config{fraction, clustering} {
			out, err := harris3d.Run(ctx, logger, harris3d.Options{
				Source: harris3d.Source{Shape: shape, Size: 1, Cells: *cells},
				Config: cfg,
			})
			if err != nil {
				logger.Fatal(err)
			}
			logger.Infof("%s/%s: %d interest points", shape, cfg.Mode, len(out.Result.Indices))
		}
	}
}
