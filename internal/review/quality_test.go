package review

import (
	"strings"
	"testing"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

func TestCheckTitle(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		reason string
	}{
		{"ok", "Lovely engine builder with birds", ""},
		{"japanese", "すごく楽しいゲームでした", ""},
		{"too short", "Bad", "Review title should be at least 5 characters for better quality"},
		{"short in runes", "テスト1", "Review title should be at least 5 characters for better quality"},
		{"all upper", "THIS GAME IS GREAT", "Review title should not be all uppercase"},
		{"short upper is fine", "GREAT GAME", ""},
		{"identical run", "Sooooo good game", "Review title contains too many consecutive identical characters"},
		{"four is fine", "Sooo good game", ""},
		{"punctuation only", "?!?!?!", "Review title appears to be meaningless"},
		{"single letter", "aaaa", "Review title appears to be meaningless"},
		{"placeholder", "test123", "Review title appears to be meaningless"},
		{"placeholder kana", "テスト12", "Review title appears to be meaningless"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTitle(tt.title)
			assertReason(t, err, domain.RuleQuality, tt.reason)
		})
	}
}

func TestCheckContent(t *testing.T) {
	dupLines := strings.Repeat("great\n", 5) +
		"the birds are lovely and the cards feel nice to shuffle\n" +
		"scoring takes a while but the end game tension is excellent"

	tests := []struct {
		name    string
		content string
		reason  string
	}{
		{"ok", "Every round you feel your engine grow a little more, and the last round is tense.", ""},
		{"too short", "Fun game.", "Review content should be at least 50 characters for better quality"},
		{"repetitive words", strings.Repeat("a ", 30), "Review content has too much repetition"},
		{"duplicate lines", dupLines, "Review content has too many duplicate lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkContent(strings.TrimSpace(tt.content))
			assertReason(t, err, domain.RuleQuality, tt.reason)
		})
	}
}

func TestCheckTags(t *testing.T) {
	tests := []struct {
		name   string
		tags   []string
		reason string
	}{
		{"none", nil, ""},
		{"ok", []string{"birds", "engine"}, ""},
		{"special only", []string{"birds", "#!"}, "Custom tags cannot consist only of special characters"},
		{"case duplicate", []string{"Birds", "birds"}, "Custom tags contain duplicates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTags(&domain.Review{CustomTags: tt.tags})
			assertReason(t, err, domain.RuleConsistency, tt.reason)
		})
	}
}

func TestLongestRun(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"aabbb", 3},
		{"ーーーーー", 5},
	}
	for _, tt := range tests {
		if got := longestRun(tt.in); got != tt.want {
			t.Errorf("longestRun(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func assertReason(t *testing.T, err error, rule, reason string) {
	t.Helper()
	if reason == "" {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	conflict, ok := err.(*domain.ConflictError)
	if !ok {
		t.Fatalf("expected *domain.ConflictError, got %T (%v)", err, err)
	}
	if conflict.Rule != rule {
		t.Errorf("rule = %q, want %q", conflict.Rule, rule)
	}
	if conflict.Reason != reason {
		t.Errorf("reason = %q, want %q", conflict.Reason, reason)
	}
}
