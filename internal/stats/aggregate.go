// Package stats aggregates published reviews into per-game statistics and rankings.
package stats

import (
	"cmp"
	"math"
	"slices"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

const (
	topFeatures     = 10
	quickPlayMinute = 30
)

// GameStatistics is the aggregate view of one game's reviews.
type GameStatistics struct {
	GameID                int64   `json:"game_id"`
	ReviewCount           int     `json:"review_count"`
	AverageOverallScore   float64 `json:"average_overall_score"`
	AverageRuleComplexity float64 `json:"average_rule_complexity"`
	AverageLuckFactor     float64 `json:"average_luck_factor"`
	AverageInteraction    float64 `json:"average_interaction"`
	AverageDowntime       float64 `json:"average_downtime"`

	RecommendedPlayerCounts []FeatureCount     `json:"recommended_player_counts"`
	PopularMechanics        []FeatureCount     `json:"popular_mechanics"`
	PopularCategories       []FeatureCount     `json:"popular_categories"`
	RatingDistribution      RatingDistribution `json:"rating_distribution"`
	PlayTime                PlayTimeAnalysis   `json:"play_time"`
	Quality                 QualityMetrics     `json:"quality"`
}

// FeatureCount is one row of a frequency table. Percentage is the share of all
// mentions in the table, rounded to a whole number.
type FeatureCount struct {
	Feature    string `json:"feature"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// RatingDistribution buckets overall scores: excellent >= 8, good >= 6, average >= 4, poor below.
type RatingDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

// PlayTimeAnalysis summarises the actual play times reviewers reported.
type PlayTimeAnalysis struct {
	Samples           int     `json:"samples"`
	Mean              float64 `json:"mean"`
	StandardDeviation float64 `json:"standard_deviation"`
	QuickPlays        int     `json:"quick_plays"`
}

type QualityMetrics struct {
	AverageQuality  float64 `json:"average_quality"`
	DetailedCount   int     `json:"detailed_count"`
	ExperienceCount int     `json:"experience_count"`
}

// Aggregate computes the statistics of reviews for gameID. It reads every review it
// is given; callers pass only published ones. No reviews yield an all-zero result.
func Aggregate(gameID int64, reviews []*domain.Review) GameStatistics {
	s := GameStatistics{
		GameID:                  gameID,
		ReviewCount:             len(reviews),
		RecommendedPlayerCounts: []FeatureCount{},
		PopularMechanics:        []FeatureCount{},
		PopularCategories:       []FeatureCount{},
	}
	if len(reviews) == 0 {
		return s
	}

	s.AverageOverallScore = averageOf(reviews, func(r *domain.Review) float64 { return r.OverallScore })
	s.AverageRuleComplexity = averageOf(reviews, func(r *domain.Review) float64 { return float64(r.RuleComplexity) })
	s.AverageLuckFactor = averageOf(reviews, func(r *domain.Review) float64 { return float64(r.LuckFactor) })
	s.AverageInteraction = averageOf(reviews, func(r *domain.Review) float64 { return float64(r.Interaction) })
	s.AverageDowntime = averageOf(reviews, func(r *domain.Review) float64 { return float64(r.Downtime) })

	s.RecommendedPlayerCounts = frequencies(reviews, func(r *domain.Review) []string { return r.RecommendedPlayers }, 0)
	s.PopularMechanics = frequencies(reviews, func(r *domain.Review) []string { return r.Mechanics }, topFeatures)
	s.PopularCategories = frequencies(reviews, func(r *domain.Review) []string { return r.Categories }, topFeatures)

	s.RatingDistribution = distribution(reviews)
	s.PlayTime = playTime(reviews)
	s.Quality = quality(reviews)
	return s
}

// averageOf averages the positive values of field, rounded to one decimal.
func averageOf(reviews []*domain.Review, field func(*domain.Review) float64) float64 {
	var sum float64
	var n int
	for _, r := range reviews {
		if v := field(r); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round1(sum / float64(n))
}

// frequencies counts list entries across reviews, most frequent first. Ties keep
// first-seen order. limit <= 0 keeps every row.
func frequencies(reviews []*domain.Review, list func(*domain.Review) []string, limit int) []FeatureCount {
	counts := map[string]int{}
	var order []string
	total := 0
	for _, r := range reviews {
		for _, v := range list(r) {
			if _, ok := counts[v]; !ok {
				order = append(order, v)
			}
			counts[v]++
			total++
		}
	}

	out := make([]FeatureCount, 0, len(order))
	for _, v := range order {
		out = append(out, FeatureCount{
			Feature:    v,
			Count:      counts[v],
			Percentage: int(math.Round(float64(counts[v]) / float64(total) * 100)),
		})
	}
	slices.SortStableFunc(out, func(a, b FeatureCount) int { return cmp.Compare(b.Count, a.Count) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func distribution(reviews []*domain.Review) RatingDistribution {
	var d RatingDistribution
	for _, r := range reviews {
		switch {
		case r.OverallScore >= 8:
			d.Excellent++
		case r.OverallScore >= 6:
			d.Good++
		case r.OverallScore >= 4:
			d.Average++
		default:
			d.Poor++
		}
	}
	return d
}

// playTime uses the sample standard deviation; a single sample has none.
func playTime(reviews []*domain.Review) PlayTimeAnalysis {
	var times []float64
	var a PlayTimeAnalysis
	for _, r := range reviews {
		if r.PlayTimeActual == nil || *r.PlayTimeActual <= 0 {
			continue
		}
		times = append(times, float64(*r.PlayTimeActual))
		if *r.PlayTimeActual <= quickPlayMinute {
			a.QuickPlays++
		}
	}
	a.Samples = len(times)
	if a.Samples == 0 {
		return a
	}

	var sum float64
	for _, t := range times {
		sum += t
	}
	mean := sum / float64(len(times))
	a.Mean = round1(mean)

	if len(times) > 1 {
		var sq float64
		for _, t := range times {
			sq += (t - mean) * (t - mean)
		}
		a.StandardDeviation = round1(math.Sqrt(sq / float64(len(times)-1)))
	}
	return a
}

func quality(reviews []*domain.Review) QualityMetrics {
	var m QualityMetrics
	var total float64
	for _, r := range reviews {
		total += r.QualityScore()
		if r.HasDetailedRatings() {
			m.DetailedCount++
		}
		if r.HasPlayExperience() {
			m.ExperienceCount++
		}
	}
	m.AverageQuality = round1(total / float64(len(reviews)))
	return m
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
