package insights

import (
	"math"
	"sort"
)

// lrdEpsilon keeps local reachability densities finite when a point's
// neighborhood collapses to zero distance (duplicate rows).
const lrdEpsilon = 1e-10

// localOutlierFactor flags the rows whose density is lowest relative to
// their k nearest neighbors, returning roughly the most anomalous fraction,
// sorted ascending. Rows with an LOF score near 1 sit in neighborhoods of
// comparable density; scores well above 1 mark outliers.
func localOutlierFactor(matrix [][]float64, k int, contamination float64) []int {
	n := len(matrix)
	if k < 1 || n < 2 {
		return nil
	}
	if k > n-1 {
		k = n - 1
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(matrix[i], matrix[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	// k nearest neighbors per row, ties broken by index for determinism.
	neighbors := make([][]int, n)
	kDist := make([]float64, n)
	order := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		order = order[:0]
		for j := 0; j < n; j++ {
			if j != i {
				order = append(order, j)
			}
		}
		sort.SliceStable(order, func(a, b int) bool {
			return dist[i][order[a]] < dist[i][order[b]]
		})
		nn := make([]int, k)
		copy(nn, order[:k])
		neighbors[i] = nn
		kDist[i] = dist[i][nn[k-1]]
	}

	lrd := make([]float64, n)
	for i := 0; i < n; i++ {
		var reach float64
		for _, o := range neighbors[i] {
			reach += math.Max(kDist[o], dist[i][o])
		}
		lrd[i] = 1 / (reach/float64(k) + lrdEpsilon)
	}

	lof := make([]float64, n)
	for i := 0; i < n; i++ {
		var ratio float64
		for _, o := range neighbors[i] {
			ratio += lrd[o] / lrd[i]
		}
		lof[i] = ratio / float64(k)
	}
	return flagTopFraction(lof, contamination)
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
