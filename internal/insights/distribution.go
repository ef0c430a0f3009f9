package insights

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"tabiq/internal/tabular"
)

// minNormalityValues is the smallest column size the normality test runs
// on. Below it IsNormal stays nil.
const minNormalityValues = 21

// AnalyzeDistributions characterizes the shape of every numeric column:
// skewness (0 below three values), excess kurtosis (0 below four values),
// a D'Agostino-Pearson normality verdict for columns with more than twenty
// values (nil otherwise), and a shape label from the skewness sign.
func (g *Generator) AnalyzeDistributions(t tabular.Table) map[string]*Distribution {
	distributions := make(map[string]*Distribution)
	if t == nil {
		return distributions
	}

	for ci := 0; ci < t.NumCols(); ci++ {
		col := t.Column(ci)
		if !tabular.IsNumericColumn(col) {
			continue
		}
		values, _ := tabular.Floats(col)

		skew := skewness(values)
		d := &Distribution{
			Skewness:         skew,
			Kurtosis:         excessKurtosis(values),
			DistributionType: classifyShape(skew),
		}
		if len(values) >= minNormalityValues {
			if p, ok := normalityPValue(values); ok {
				isNormal := p > 0.05
				d.IsNormal = &isNormal
			}
		}
		distributions[col.Name()] = d
	}
	return distributions
}

func classifyShape(skew float64) string {
	switch {
	case math.Abs(skew) < 0.5:
		return ShapeSymmetric
	case skew > 0:
		return ShapeRightSkewed
	default:
		return ShapeLeftSkewed
	}
}

// moments returns the mean and the 2nd, 3rd, and 4th central moments.
func moments(values []float64) (mean, m2, m3, m4 float64) {
	n := float64(len(values))
	for _, v := range values {
		mean += v
	}
	mean /= n
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m3 /= n
	m4 /= n
	return mean, m2, m3, m4
}

// skewness is the population coefficient g1 = m3 / m2^(3/2). Columns with
// fewer than three values or zero variance report 0.
func skewness(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}
	_, m2, m3, _ := moments(values)
	if m2 == 0 {
		return 0
	}
	return m3 / math.Pow(m2, 1.5)
}

// excessKurtosis is the population coefficient g2 = m4 / m2^2 - 3. Columns
// with fewer than four values or zero variance report 0.
func excessKurtosis(values []float64) float64 {
	if len(values) < 4 {
		return 0
	}
	_, m2, _, m4 := moments(values)
	if m2 == 0 {
		return 0
	}
	return m4/(m2*m2) - 3
}

// normalityPValue runs the D'Agostino-Pearson omnibus test: the squared
// normalized skewness and kurtosis statistics sum to a value that is
// chi-squared with two degrees of freedom under normality.
func normalityPValue(values []float64) (float64, bool) {
	zs, okS := skewnessStatistic(values)
	zk, okK := kurtosisStatistic(values)
	if !okS || !okK {
		return 0, false
	}
	k2 := zs*zs + zk*zk
	dist := distuv.ChiSquared{K: 2}
	return dist.Survival(k2), true
}

// skewnessStatistic transforms g1 to an approximately standard normal
// variable (D'Agostino 1970).
func skewnessStatistic(values []float64) (float64, bool) {
	n := float64(len(values))
	if n < 8 {
		return 0, false
	}
	g1 := skewness(values)

	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if y == 0 {
		y = 1
	}
	z := delta * math.Log(y/alpha+math.Sqrt((y/alpha)*(y/alpha)+1))
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, false
	}
	return z, true
}

// kurtosisStatistic transforms b2 to an approximately standard normal
// variable (Anscombe and Glynn 1983).
func kurtosisStatistic(values []float64) (float64, bool) {
	n := float64(len(values))
	if n < 5 {
		return 0, false
	}
	b2 := excessKurtosis(values) + 3

	e := 3 * (n - 1) / (n + 1)
	variance := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(variance)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) *
		math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))

	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	if denom == 0 {
		return 0, false
	}
	term2 := math.Copysign(math.Cbrt((1-2/a)/math.Abs(denom)), denom)

	z := (term1 - term2) / math.Sqrt(2/(9*a))
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, false
	}
	return z, true
}
