package services

import "math"

// MomentumScore folds one day's hiring movement into a single 0-100 signal.
// New openings dominate, net change adds direction, and the log term keeps
// big boards from pinning the scale on active count alone.
func MomentumScore(newJobs, netChange, activeJobs int) int {
	if activeJobs < 0 {
		activeJobs = 0
	}
	raw := 10*float64(newJobs) + 2*float64(netChange) + 5*math.Log(float64(activeJobs)+1)
	score := math.Round(raw)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}
