package interestpoints

import (
	"math"

	"github.com/golang/geo/r3"
)

// MatchInterestPoints matches each reference point, in order, to the closest not yet
// matched point of other within maxDist. The returned map is refIdx -> otherIdx.
func MatchInterestPoints(ref, other []r3.Vector, maxDist float64) map[int]int {
	matched := make(map[int]bool) // Indices into other that have been matched.
	matchMap := make(map[int]int)

	for ri, rp := range ref {
		bestDist := math.MaxFloat64
		bestOther := -1

		for oi, op := range other {
			if matched[oi] {
				continue
			}
			dist := rp.Distance(op)
			if dist <= maxDist && dist < bestDist {
				bestDist = dist
				bestOther = oi
			}
		}

		if bestOther >= 0 {
			matched[bestOther] = true
			matchMap[ri] = bestOther
		}
	}
	return matchMap
}

// Repeatability returns the fraction of reference points that have a match in other.
func Repeatability(ref, other []r3.Vector, maxDist float64) float64 {
	if len(ref) == 0 {
		return 0
	}
	return float64(len(MatchInterestPoints(ref, other, maxDist))) / float64(len(ref))
}

// Positions returns the positions of the result's interest points in selection order.
func (r *Result) Positions() []r3.Vector {
	out := make([]r3.Vector, len(r.Points))
	for i, ip := range r.Points {
		out[i] = ip.Pose.Point()
	}
	return out
}
