package harris3d

import (
	"context"
	"fmt"

	ip "github.com/jhonmgb/harris3d/interest_points"
	"go.viam.com/rdk/logging"
)

// defaultMatchFraction is the match tolerance, relative to the reference mesh diagonal,
// used when Compare is given none.
const defaultMatchFraction = 0.01

// Comparison reports how well interest points detected on one mesh reappear on another.
type Comparison struct {
	Reference     *ip.Result
	Other         *ip.Result
	Matches       map[int]int // Reference selection position → other selection position
	Tolerance     float64
	Repeatability float64
}

// Compare detects interest points on two meshes with the same config and measures
// their repeatability. A tolerance <= 0 means 1% of the reference mesh diagonal.
func Compare(ctx context.Context, logger logging.Logger, cfg ip.Config, ref, other Source, tolerance float64) (*Comparison, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("harris3d")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	refMesh, err := LoadMesh(ref)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	otherMesh, err := LoadMesh(other)
	if err != nil {
		return nil, fmt.Errorf("other: %w", err)
	}

	detector := ip.NewDetector(&cfg, logger)
	refResult, err := detector.Detect(ctx, refMesh)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	otherResult, err := detector.Detect(ctx, otherMesh)
	if err != nil {
		return nil, fmt.Errorf("other: %w", err)
	}

	if tolerance <= 0 {
		tolerance = refMesh.Diagonal() * defaultMatchFraction
	}
	refPts, otherPts := refResult.Positions(), otherResult.Positions()
	c := &Comparison{
		Reference:     refResult,
		Other:         otherResult,
		Matches:       ip.MatchInterestPoints(refPts, otherPts, tolerance),
		Tolerance:     tolerance,
		Repeatability: ip.Repeatability(refPts, otherPts, tolerance),
	}
	logger.Infof("Repeatability %s vs %s: %.1f%% (%d/%d within %g)",
		ref, other, c.Repeatability*100, len(c.Matches), len(refPts), tolerance)
	return c, nil
}
