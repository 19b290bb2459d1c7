package interestpoints

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/pointcloud"
)

// PreselectLocalMaxima keeps every vertex whose direct neighbours all have a response no
// greater than its own. responses must be indexed by vertex handle.
func PreselectLocalMaxima(responses []VertexResponse) []Candidate {
	var candidates []Candidate
	for _, vr := range responses {
		isMax := true
		for _, u := range vr.Neighbours {
			if responses[u].Response > vr.Response {
				isMax = false
				break
			}
		}
		if isMax {
			candidates = append(candidates, Candidate{Index: vr.Index, Response: vr.Response})
		}
	}
	return candidates
}

// RankCandidates sorts candidates by response, highest first, breaking ties by ascending index.
func RankCandidates(candidates []Candidate) {
	slices.SortFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(b.Response, a.Response); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
}

// SelectFraction keeps the first floor(percentage × vertexCount) ranked candidates. When that
// count is zero or exceeds the candidates available, all candidates are kept.
func SelectFraction(ranked []Candidate, percentage float64, vertexCount int) []int {
	n := int(math.Floor(percentage * float64(vertexCount)))
	if n == 0 || n > len(ranked) {
		n = len(ranked)
	}
	out := make([]int, n)
	for i := range out {
		out[i] = ranked[i].Index
	}
	return out
}

// SelectClustering walks the ranked candidates and accepts one only if it lies at least
// diagonal × percentage away from every candidate accepted before it.
func SelectClustering(ranked []Candidate, points []r3.Vector, diagonal, percentage float64) ([]int, error) {
	rho := diagonal * percentage
	accepted := pointcloud.ToKDTree(pointcloud.NewBasicEmpty())
	out := make([]int, 0, len(ranked))

	for _, c := range ranked {
		p := points[c.Index]
		if rho > 0 && tooClose(accepted, p, rho) {
			continue
		}
		if err := accepted.Set(p, pointcloud.NewValueData(c.Index)); err != nil {
			return nil, fmt.Errorf("accept vertex %d: %w", c.Index, err)
		}
		out = append(out, c.Index)
	}
	return out, nil
}

// tooClose reports whether any accepted point is strictly closer than rho to p.
// The radius query narrows the search; exact distances decide.
func tooClose(accepted *pointcloud.KDTree, p r3.Vector, rho float64) bool {
	for _, nb := range accepted.RadiusNearestNeighbors(p, rho, true) {
		if nb.P.Distance(p) < rho {
			return true
		}
	}
	return false
}

// Select runs local-maxima pruning, ranking and the configured selection policy.
func Select(responses []VertexResponse, points []r3.Vector, diagonal float64, cfg Config) ([]int, error) {
	candidates := PreselectLocalMaxima(responses)
	RankCandidates(candidates)

	switch cfg.Mode {
	case SelectionFraction:
		return SelectFraction(candidates, cfg.PercentageOfPoints, len(responses)), nil
	case SelectionClustering:
		return SelectClustering(candidates, points, diagonal, cfg.PercentageOfPoints)
	default:
		return nil, fmt.Errorf("mode %d: %w", int(cfg.Mode), ErrUnknownSelectionMode)
	}
}
