package review

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

// Quality thresholds.
const (
	minTitleLength       = 5
	uppercaseTitleLength = 10
	maxIdenticalRun      = 4 // a fifth identical character in a row is rejected
	minContentLength     = 50
	maxRepetitionRate    = 0.7
	minWordsForRateCheck = 20
	minLinesForDupCheck  = 5
)

var (
	punctuationOnly = regexp.MustCompile(`^[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]+$`)
	placeholderWord = regexp.MustCompile(`(?i)^(test|テスト|あああ|いいい)\d*$`)
)

func checkQuality(r *domain.Review) error {
	if err := checkTitle(r.Title); err != nil {
		return err
	}
	return checkContent(r.Content)
}

func checkTitle(title string) error {
	if utf8.RuneCountInString(title) < minTitleLength {
		return quality("Review title should be at least %d characters for better quality", minTitleLength)
	}
	if utf8.RuneCountInString(title) > uppercaseTitleLength && isAllUpper(title) {
		return quality("Review title should not be all uppercase")
	}
	if longestRun(title) > maxIdenticalRun {
		return quality("Review title contains too many consecutive identical characters")
	}
	t := strings.TrimSpace(title)
	if punctuationOnly.MatchString(t) || isSingleLetterRepeated(t) || placeholderWord.MatchString(t) {
		return quality("Review title appears to be meaningless")
	}
	return nil
}

func checkContent(content string) error {
	if utf8.RuneCountInString(content) < minContentLength {
		return quality("Review content should be at least %d characters for better quality", minContentLength)
	}

	words := strings.Fields(strings.ToLower(content))
	if len(words) > minWordsForRateCheck {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		if rate := 1 - float64(len(unique))/float64(len(words)); rate > maxRepetitionRate {
			return quality("Review content has too much repetition")
		}
	}

	var lines []string
	for _, l := range strings.Split(content, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > minLinesForDupCheck {
		unique := make(map[string]struct{}, len(lines))
		for _, l := range lines {
			unique[l] = struct{}{}
		}
		if float64(len(lines)-len(unique)) > float64(len(lines))*0.5 {
			return quality("Review content has too many duplicate lines")
		}
	}
	return nil
}

func checkTags(r *domain.Review) error {
	tags := r.CustomTags
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if punctuationOnly.MatchString(tag) {
			return consistency("Custom tags cannot consist only of special characters")
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			return consistency("Custom tags contain duplicates")
		}
		seen[key] = struct{}{}
	}
	return nil
}

// isAllUpper reports whether s has cased letters and none of them is lower case.
// Scripts without case never count as upper case.
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// longestRun returns the length of the longest run of one repeated rune.
func longestRun(s string) int {
	best, run := 0, 0
	var prev rune = -1
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		best = max(best, run)
	}
	return best
}

// isSingleLetterRepeated matches "aa", "ZZZZ": one ASCII letter, at least twice.
func isSingleLetterRepeated(s string) bool {
	if len(s) < 2 {
		return false
	}
	first := s[0]
	if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != first {
			return false
		}
	}
	return true
}

func quality(format string, args ...any) error {
	return domain.Conflict(domain.RuleQuality, format, args...)
}

func consistency(format string, args ...any) error {
	return domain.Conflict(domain.RuleConsistency, format, args...)
}
