package insights

import (
	"math"
	"math/rand"
)

// Isolation forest shape, matching the usual defaults: 100 trees over
// subsamples of at most 256 rows.
const (
	isoTrees     = 100
	isoMaxSample = 256
)

// eulerGamma is the Euler-Mascheroni constant used in the average
// unsuccessful-search path length of a binary search tree.
const eulerGamma = 0.5772156649015329

// isolationForest isolates rows by random axis-aligned splits. Rows that
// isolate in few splits score close to 1 and are outliers; deep rows score
// near 0.5 or below.
type isolationForest struct {
	rng *rand.Rand
}

func newIsolationForest(seed int64) *isolationForest {
	return &isolationForest{rng: rand.New(rand.NewSource(seed))}
}

// detect scores every row and returns the indices of roughly the most
// anomalous fraction, sorted ascending.
func (f *isolationForest) detect(matrix [][]float64, contamination float64) []int {
	n := len(matrix)
	sampleSize := min(isoMaxSample, n)
	heightLimit := int(math.Ceil(math.Log2(float64(sampleSize))))

	trees := make([]*isoNode, isoTrees)
	for i := range trees {
		sample := f.rng.Perm(n)[:sampleSize]
		trees[i] = f.grow(matrix, sample, 0, heightLimit)
	}

	norm := avgPathLength(sampleSize)
	scores := make([]float64, n)
	for r := range matrix {
		var total float64
		for _, tree := range trees {
			total += pathLength(tree, matrix[r], 0)
		}
		scores[r] = math.Exp2(-(total / float64(len(trees))) / norm)
	}
	return flagTopFraction(scores, contamination)
}

// isoNode is one node of an isolation tree. Leaves carry the sample count
// that reached them; internal nodes split one feature at a random point.
type isoNode struct {
	feature     int
	split       float64
	left, right *isoNode
	size        int
}

func (f *isolationForest) grow(matrix [][]float64, sample []int, depth, limit int) *isoNode {
	if depth >= limit || len(sample) <= 1 {
		return &isoNode{size: len(sample)}
	}

	// Splittable features are those not constant over the sample.
	dims := len(matrix[0])
	var candidates []int
	for c := 0; c < dims; c++ {
		lo, hi := matrix[sample[0]][c], matrix[sample[0]][c]
		for _, r := range sample[1:] {
			v := matrix[r][c]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi > lo {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return &isoNode{size: len(sample)}
	}

	feature := candidates[f.rng.Intn(len(candidates))]
	lo, hi := matrix[sample[0]][feature], matrix[sample[0]][feature]
	for _, r := range sample[1:] {
		v := matrix[r][feature]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	split := lo + f.rng.Float64()*(hi-lo)

	var left, right []int
	for _, r := range sample {
		if matrix[r][feature] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return &isoNode{
		feature: feature,
		split:   split,
		left:    f.grow(matrix, left, depth+1, limit),
		right:   f.grow(matrix, right, depth+1, limit),
		size:    len(sample),
	}
}

func pathLength(node *isoNode, row []float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if row[node.feature] < node.split {
		return pathLength(node.left, row, depth+1)
	}
	return pathLength(node.right, row, depth+1)
}

// avgPathLength is c(m), the expected path length of an unsuccessful search
// in a binary search tree over m points.
func avgPathLength(m int) float64 {
	switch {
	case m <= 1:
		return 0
	case m == 2:
		return 1
	default:
		n := float64(m)
		return 2*(math.Log(n-1)+eulerGamma) - 2*(n-1)/n
	}
}
