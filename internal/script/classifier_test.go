package script

import "testing"

func TestHasKana(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ウイングスパン", true},
		{"ひらがな", true},
		{"カタン 拡張", true},
		{"晴天", false},
		{"Wingspan", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasKana(tt.in); got != tt.want {
			t.Errorf("HasKana(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHasKanjiOnly(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"晴天", true},
		{"三国志 Deluxe", true},
		{"花火 はなび", false},
		{"ウイングスパン", false},
		{"Hanabi", false},
	}
	for _, tt := range tests {
		if got := HasKanjiOnly(tt.in); got != tt.want {
			t.Errorf("HasKanjiOnly(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHasHanZh(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"我們的遊戲", true},
		{"动物", true},
		{"動物", true},
		{"晴天", false},
		{"ウイングスパン", false},
	}
	for _, tt := range tests {
		if got := HasHanZh(tt.in); got != tt.want {
			t.Errorf("HasHanZh(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidLocalizedName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"kana title", "ウイングスパン", true},
		{"kanji title", "晴天", true},
		{"english reference", "Japanese Edition", false},
		{"japan version", "Wingspan (Japan Version)", false},
		{"plain english", "Wingspan", false},
		{"chinese glyph", "我們的遊戲", false},
		{"blank", "   ", false},
		{"mixed with japanese text", "ウイングスパン Japanese edition", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidLocalizedName(tt.in); got != tt.want {
				t.Errorf("IsValidLocalizedName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
