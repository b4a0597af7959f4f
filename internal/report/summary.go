// Package report computes batch prediction statistics and renders exports.
package report

import (
	"math"
	"sort"
)

// TopJobsLimit is how many job titles the summary ranks.
const TopJobsLimit = 5

// Stats summarizes predicted salaries.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	StdDev float64 `json:"stdDev"`
}

// GroupMean is the mean salary for one value of a grouping column.
type GroupMean struct {
	Group string  `json:"group"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// Summary is the full batch report.
type Summary struct {
	Stats       Stats       `json:"stats"`
	TopJobs     []GroupMean `json:"topJobs"`
	ByIndustry  []GroupMean `json:"byIndustry,omitempty"`
	ByEducation []GroupMean `json:"byEducation,omitempty"`
}

// Compute returns count, mean, median, extremes and the sample standard
// deviation (n-1). StdDev is 0 for fewer than two values.
func Compute(values []float64) Stats {
	n := len(values)
	if n == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	var std float64
	if n > 1 {
		var sq float64
		for _, v := range sorted {
			d := v - mean
			sq += d * d
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	return Stats{
		Count:  n,
		Mean:   mean,
		Median: median,
		Max:    sorted[n-1],
		Min:    sorted[0],
		StdDev: std,
	}
}

// GroupMeans averages values by key and returns groups ordered by mean
// descending, ties by name. limit <= 0 returns every group.
func GroupMeans(keys []string, values []float64, limit int) []GroupMean {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for i, k := range keys {
		if i >= len(values) {
			break
		}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.sum += values[i]
		a.count++
	}

	out := make([]GroupMean, 0, len(groups))
	for k, a := range groups {
		out = append(out, GroupMean{Group: k, Mean: a.sum / float64(a.count), Count: a.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Group < out[j].Group
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
