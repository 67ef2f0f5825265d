package localize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

func TestIsJapanesePublisher(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Hobby Japan", true},
		{"hobby japan co., ltd.", true},
		{"アークライト", true},
		{"Oink Games Inc.", true},
		{"Some Publisher Japan", true},
		{"ジーピー", true},
		{"Stonemaier Games", false},
		{"KOSMOS", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsJapanesePublisher(tt.in); got != tt.want {
			t.Errorf("IsJapanesePublisher(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	base := func() *domain.CatalogRecord {
		return &domain.CatalogRecord{
			ExternalID: 266192,
			Name:       "Wingspan",
			Names:      []domain.AlternateName{{Type: domain.NameTypePrimary, Value: "Wingspan"}},
			ImageURL:   "https://img/base.jpg",
			Publishers: []string{"Stonemaier Games"},
		}
	}

	t.Run("kana version beats later keyword version and stops the scan", func(t *testing.T) {
		versions := []domain.VersionEntry{
			{Name: "Chinese edition 們", Publishers: []string{"Broadway"}},
			{Name: "ウイングスパン 日本語版", Publishers: []string{"Arclight"}, YearPublished: domain.IntPtr(2019), ImageURL: "https://img/ja.jpg"},
			{Name: "Japanese edition", Publishers: []string{"Hobby Japan"}, YearPublished: domain.IntPtr(2021)},
		}
		got := Resolve(base(), versions)
		require.NotNil(t, got)
		assert.Equal(t, domain.PriorityKana, got.Priority)
		assert.Equal(t, "ウイングスパン 日本語版", got.Name)
		assert.Equal(t, "Arclight", got.Publisher)
		assert.Equal(t, "2019-01-01", got.ReleaseDate)
		assert.Equal(t, "https://img/ja.jpg", got.ImageURL)
	})

	t.Run("keyword with japanese publisher outranks keyword alone", func(t *testing.T) {
		versions := []domain.VersionEntry{
			{Name: "Japanese edition", Publishers: []string{"Unknown Co"}, YearPublished: domain.IntPtr(2020)},
			{Name: "Japan release", Publishers: []string{"Hobby Japan"}, YearPublished: domain.IntPtr(2021)},
		}
		got := Resolve(base(), versions)
		require.NotNil(t, got)
		assert.Equal(t, domain.PriorityPublisher, got.Priority)
		assert.Equal(t, "Hobby Japan", got.Publisher)
		assert.Equal(t, "2021-01-01", got.ReleaseDate)
		assert.Empty(t, got.Name, "english keyword names are not localized names")
		assert.Equal(t, "https://img/base.jpg", got.ImageURL)
	})

	t.Run("ties keep the first candidate", func(t *testing.T) {
		versions := []domain.VersionEntry{
			{Name: "Japanese edition", YearPublished: domain.IntPtr(2018)},
			{Name: "Japan edition 2nd", YearPublished: domain.IntPtr(2022)},
		}
		got := Resolve(base(), versions)
		require.NotNil(t, got)
		assert.Equal(t, domain.PriorityKeyword, got.Priority)
		assert.Equal(t, "2018-01-01", got.ReleaseDate)
	})

	t.Run("kana alternate name wins before versions", func(t *testing.T) {
		rec := base()
		rec.Names = append(rec.Names, domain.AlternateName{Type: "alternate", Value: "ウイングスパン"})
		versions := []domain.VersionEntry{{Name: "Japanese edition", Publishers: []string{"Arclight"}}}

		got := Resolve(rec, versions)
		require.NotNil(t, got)
		assert.Equal(t, "ウイングスパン", got.Name)
		assert.Equal(t, domain.PriorityKana, got.Priority)
		assert.Equal(t, "https://img/base.jpg", got.ImageURL)
	})

	t.Run("kanji only name is the weakest candidate", func(t *testing.T) {
		rec := base()
		rec.Names = append(rec.Names, domain.AlternateName{Type: "alternate", Value: "翼展"})
		versions := []domain.VersionEntry{{Name: "Japanese edition"}}

		got := Resolve(rec, versions)
		require.NotNil(t, got)
		assert.Equal(t, domain.PriorityKeyword, got.Priority)
		assert.Equal(t, "翼展", got.Name, "keyword version keeps the previous localized name")
	})

	t.Run("record publisher is attached when the winner lacks one", func(t *testing.T) {
		rec := base()
		rec.Publishers = append(rec.Publishers, "ホビージャパン")
		versions := []domain.VersionEntry{{Name: "ウイングスパン"}}

		got := Resolve(rec, versions)
		require.NotNil(t, got)
		assert.Equal(t, "ホビージャパン", got.Publisher)
	})

	t.Run("publisher only candidate", func(t *testing.T) {
		rec := base()
		rec.Publishers = append(rec.Publishers, "Hobby Japan")

		got := Resolve(rec, nil)
		require.NotNil(t, got)
		assert.Equal(t, domain.PriorityNone, got.Priority)
		assert.Empty(t, got.Name)
		assert.Equal(t, "Hobby Japan", got.Publisher)
	})

	t.Run("nothing japanese", func(t *testing.T) {
		assert.Nil(t, Resolve(base(), []domain.VersionEntry{{Name: "German edition", Publishers: []string{"Feuerland"}}}))
	})
}

func TestDecideDisplayIdentity(t *testing.T) {
	tests := []struct {
		name                                          string
		origName, locName, origPublisher, locPublisher string
		want                                          domain.DisplayIdentity
	}{
		{
			name:     "valid localized name",
			origName: "Wingspan", locName: "ウイングスパン", origPublisher: "Stonemaier", locPublisher: "Arclight",
			want: domain.DisplayIdentity{Name: "ウイングスパン", Publisher: "Arclight", Reason: ReasonLocalizedName},
		},
		{
			name:     "valid localized name without localized publisher",
			origName: "Wingspan", locName: "ウイングスパン", origPublisher: "Stonemaier",
			want: domain.DisplayIdentity{Name: "ウイングスパン", Publisher: "Stonemaier", Reason: ReasonLocalizedName},
		},
		{
			name:     "invalid localized name falls back to publisher",
			origName: "Wingspan", locName: "Japanese Edition", origPublisher: "Stonemaier", locPublisher: "Arclight",
			want: domain.DisplayIdentity{Name: "Wingspan", Publisher: "Arclight", Reason: ReasonLocalizedPublisher},
		},
		{
			name:     "originals",
			origName: "Wingspan", origPublisher: "Stonemaier",
			want: domain.DisplayIdentity{Name: "Wingspan", Publisher: "Stonemaier", Reason: ReasonOriginal},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideDisplayIdentity(tt.origName, tt.locName, tt.origPublisher, tt.locPublisher)
			assert.Equal(t, tt.want, got)
		})
	}
}
