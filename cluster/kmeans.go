package cluster

import (
	"math"
	"math/rand"
)

// KMeans partitions points into K clusters with Lloyd's algorithm and
// k-means++ seeding. The best of NInit runs by inertia is kept. Results are
// deterministic for a given Seed.
type KMeans struct {
	K             int
	NInit         int
	MaxIterations int
	Seed          int64
}

// Fit returns the cluster label of each point and the inertia (sum of
// squared distances to the assigned centers) of the best run.
func (km KMeans) Fit(points [][]float64) ([]int, float64) {
	n := len(points)
	if n == 0 {
		return nil, 0
	}
	k := min(max(km.K, 1), n)
	runs := max(km.NInit, 1)
	iterations := max(km.MaxIterations, 1)

	rng := rand.New(rand.NewSource(km.Seed))

	var best []int
	bestInertia := math.Inf(1)
	for run := 0; run < runs; run++ {
		centers := seedCenters(points, k, rng)
		labels, inertia := lloyd(points, centers, iterations)
		if inertia < bestInertia {
			best, bestInertia = labels, inertia
		}
	}
	return best, bestInertia
}

// seedCenters picks k initial centers: the first uniformly at random, each
// following one with probability proportional to its squared distance from
// the nearest center already chosen.
func seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for i, p := range points {
		dist[i] = sqDist(p, centers[0])
	}

	for len(centers) < k {
		var total float64
		for _, d := range dist {
			total += d
		}

		next := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dist {
				target -= d
				if target <= 0 {
					next = i
					break
				}
			}
		}

		c := clone(points[next])
		centers = append(centers, c)
		for i, p := range points {
			if d := sqDist(p, c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centers
}

// lloyd alternates assignment and update steps until assignments stop
// changing or the iteration limit is reached. A center that loses all its
// points keeps its previous position.
func lloyd(points, centers [][]float64, iterations int) ([]int, float64) {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	dims := len(points[0])

	for iter := 0; iter < iterations; iter++ {
		changed := false
		for i, p := range points {
			c, _ := nearest(p, centers)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float64, len(centers))
		counts := make([]int, len(centers))
		for j := range sums {
			sums[j] = make([]float64, dims)
		}
		for i, p := range points {
			counts[labels[i]]++
			for d, v := range p {
				sums[labels[i]][d] += v
			}
		}
		for j := range centers {
			if counts[j] == 0 {
				continue
			}
			for d := range sums[j] {
				centers[j][d] = sums[j][d] / float64(counts[j])
			}
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centers[labels[i]])
	}
	return labels, inertia
}

func nearest(p []float64, centers [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centers {
		if d := sqDist(p, c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best, bestDist
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}

// Standardize scales each column to zero mean and unit population
// variance. Columns with zero variance become all zeros.
func Standardize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])
	n := float64(len(rows))

	mean := make([]float64, dims)
	for _, r := range rows {
		for d, v := range r {
			mean[d] += v
		}
	}
	for d := range mean {
		mean[d] /= n
	}

	std := make([]float64, dims)
	for _, r := range rows {
		for d, v := range r {
			diff := v - mean[d]
			std[d] += diff * diff
		}
	}
	for d := range std {
		std[d] = math.Sqrt(std[d] / n)
	}

	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = make([]float64, dims)
		for d, v := range r {
			if std[d] > 0 {
				out[i][d] = (v - mean[d]) / std[d]
			}
		}
	}
	return out
}
