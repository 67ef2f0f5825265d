package review

import (
	"strings"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

const (
	highOverall = 8
	lowOverall  = 3

	minPlayMinutes    = 5
	maxPlayMinutes    = 480
	maxPlayersPlayed  = 20
	inconsistentCount = 2
)

// contradictions pairs a pro term with the con term that contradicts it.
var contradictions = [][2]string{
	{"simple", "complex"},
	{"fast", "slow"},
	{"easy", "difficult"},
	{"簡単", "難しい"},
	{"早い", "遅い"},
}

func checkRatings(r *domain.Review) error {
	if !r.HasDetailedRatings() {
		return nil
	}
	var low, high int
	for _, s := range r.SubScores() {
		if s <= 2 {
			low++
		}
		if s >= 4 {
			high++
		}
	}
	switch {
	case r.OverallScore >= highOverall && low >= inconsistentCount:
		return consistency("High overall score inconsistent with detailed ratings")
	case r.OverallScore <= lowOverall && high >= inconsistentCount:
		return consistency("Low overall score inconsistent with detailed ratings")
	}
	return nil
}

func checkPlayExperience(r *domain.Review) error {
	if t := r.PlayTimeActual; t != nil {
		if *t < minPlayMinutes {
			return consistency("Actual play time seems too short (less than %d minutes)", minPlayMinutes)
		}
		if *t > maxPlayMinutes {
			return consistency("Actual play time seems too long (more than %d hours)", maxPlayMinutes/60)
		}
	}
	if n := r.PlayerCountPlayed; n != nil && *n > maxPlayersPlayed {
		return consistency("Player count played seems too high (more than %d)", maxPlayersPlayed)
	}
	return nil
}

// checkProsCons runs the pros/cons rules. A nil list means the reviewer left it out,
// an empty one that they explicitly listed nothing.
func checkProsCons(r *domain.Review) error {
	pros := lowerAll(r.Pros)
	cons := lowerAll(r.Cons)

	if r.Pros != nil && r.Cons != nil {
		inCons := make(map[string]struct{}, len(cons))
		for _, c := range cons {
			inCons[c] = struct{}{}
		}
		for _, p := range pros {
			if _, ok := inCons[p]; ok {
				return consistency("Same content cannot appear in both pros and cons")
			}
		}

		for _, pair := range contradictions {
			if anyContains(pros, pair[0]) && anyContains(cons, pair[1]) {
				return consistency("Contradictory statements found: %q in pros and %q in cons", pair[0], pair[1])
			}
		}
	}

	switch {
	case r.OverallScore >= highOverall && r.Pros != nil && len(pros) == 0:
		return consistency("High rating should include some positive aspects (pros)")
	case r.OverallScore >= highOverall && r.Cons != nil && len(cons) > len(pros):
		return consistency("High rating with more cons than pros seems inconsistent")
	case r.OverallScore <= lowOverall && r.Cons != nil && len(cons) == 0:
		return consistency("Low rating should include some negative aspects (cons)")
	case r.OverallScore <= lowOverall && r.Pros != nil && len(pros) > len(cons):
		return consistency("Low rating with more pros than cons seems inconsistent")
	}
	return nil
}

func checkRecommendedPlayers(r *domain.Review) error {
	seen := make(map[string]struct{}, len(r.RecommendedPlayers))
	for _, p := range r.RecommendedPlayers {
		if _, dup := seen[p]; dup {
			return consistency("Recommended players contain duplicates")
		}
		seen[p] = struct{}{}
	}
	return nil
}

func anyContains(list []string, term string) bool {
	for _, s := range list {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
