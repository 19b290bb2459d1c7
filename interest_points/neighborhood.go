package interestpoints

import (
	"slices"
	"sort"

	"github.com/golang/geo/r3"

	"github.com/jhonmgb/harris3d/mesh"
)

// FacesOf returns the faces incident to vertex v.
func FacesOf(m mesh.View, v int) []int {
	return m.VertexAt(v).Faces
}

// DirectNeighbours returns, in ascending order, every vertex sharing one of facesOfV with v.
func DirectNeighbours(m mesh.View, v int, facesOfV []int) []int {
	out := make([]int, 0, 2*len(facesOfV))
	for _, fi := range facesOfV {
		for _, u := range m.FaceAt(fi).Vertices {
			if u != v {
				out = append(out, u)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// KRingNeighbourhood returns, in ascending order, v, its direct neighbours, and the
// vertices reached by k-2 further expansion rounds. Each round expands the current
// frontier; the next frontier is every vertex seen so far except those of the current
// and previous frontiers.
func KRingNeighbourhood(m mesh.View, v, k int, direct []int) []int {
	result := map[int]struct{}{v: {}}
	for _, u := range direct {
		result[u] = struct{}{}
	}

	previous := map[int]struct{}{v: {}}
	frontier := append([]int(nil), direct...)
	seen := make(map[int]struct{})

	for ring := 2; ring < k; ring++ {
		current := make(map[int]struct{}, len(frontier))
		for _, u := range frontier {
			current[u] = struct{}{}
			for _, w := range DirectNeighbours(m, u, FacesOf(m, u)) {
				seen[w] = struct{}{}
				result[w] = struct{}{}
			}
		}

		next := make([]int, 0, len(seen))
		for w := range seen {
			if _, ok := current[w]; ok {
				continue
			}
			if _, ok := previous[w]; ok {
				continue
			}
			next = append(next, w)
		}
		sort.Ints(next)

		previous = current
		frontier = next
	}

	out := make([]int, 0, len(result))
	for u := range result {
		out = append(out, u)
	}
	sort.Ints(out)
	return out
}

// BuildNeighbourhood gathers the k-ring neighbourhood of v as a point cloud.
func BuildNeighbourhood(m mesh.View, v, k int) Neighborhood {
	direct := DirectNeighbours(m, v, FacesOf(m, v))
	return neighbourhoodFromIndices(m, v, KRingNeighbourhood(m, v, k, direct))
}

func neighbourhoodFromIndices(m mesh.View, v int, indices []int) Neighborhood {
	points := make([]r3.Vector, len(indices))
	for i, u := range indices {
		points[i] = m.VertexAt(u).Point
	}
	return Neighborhood{
		Indices: indices,
		Points:  points,
		Center:  sort.SearchInts(indices, v),
	}
}
