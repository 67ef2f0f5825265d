package taxonomy

// Defaults for the blended scores.
const (
	DefaultBaseline     = 7.5
	DefaultPriorWeight  = 10.0
	DefaultVendorWeight = 10.0
)

// WeightedScore blends site ratings with a baseline prior:
// (sum + baseline*weight) / (count + weight). With no ratings it returns baseline.
func WeightedScore(sum float64, count int, baseline, weight float64) float64 {
	if float64(count)+weight <= 0 {
		return baseline
	}
	return (sum + baseline*weight) / (float64(count) + weight)
}

// PlayerCountRecommendation blends site votes for a player count with the vendor's
// recommendation, which counts as weight extra votes when present.
func PlayerCountRecommendation(userVotes int, vendorRecommended bool, weight float64) float64 {
	total := float64(userVotes) + weight
	if total <= 0 {
		return 0
	}
	score := float64(userVotes)
	if vendorRecommended {
		score += weight
	}
	return score / total
}
