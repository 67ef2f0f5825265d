package reconcile

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

// Site taxonomy caps.
const (
	MaxSiteCategories = 10
	MaxSiteMechanics  = 15
)

// LocalIDPrefix marks games that exist only on the site.
const LocalIDPrefix = "jp-"

var localID = regexp.MustCompile(`^jp-\d+$`)

// CheckConsistency applies the catalog rules a well-formed game must also satisfy.
func CheckConsistency(g *domain.Game) error {
	if g.MinPlayers != nil && g.MaxPlayers != nil && *g.MinPlayers > *g.MaxPlayers {
		return conflict("Minimum players cannot be greater than maximum players")
	}
	if g.YearPublished != nil {
		if *g.YearPublished < domain.MinCatalogYear {
			return conflict("Year published cannot be before %d", domain.MinCatalogYear)
		}
		if *g.YearPublished > domain.MaxCatalogYear() {
			return conflict("Year published cannot be more than %d years in the future", domain.MaxYearsAhead)
		}
	}
	if g.PlayingTime != nil && *g.PlayingTime < 0 {
		return conflict("Playing time cannot be negative")
	}
	if g.MinAge != nil && (*g.MinAge < 0 || *g.MinAge > 99) {
		return conflict("Minimum age must be between 0 and 99")
	}

	lists := []struct {
		label string
		items []string
	}{
		{"BGG categories", g.BGGCategories},
		{"BGG mechanics", g.BGGMechanics},
		{"Site categories", g.SiteCategories},
		{"Site mechanics", g.SiteMechanics},
	}
	for _, l := range lists {
		if hasDuplicates(l.items) {
			return conflict("%s contain duplicates", l.label)
		}
	}
	if len(g.SiteCategories) > MaxSiteCategories {
		return conflict("Cannot have more than %d site categories", MaxSiteCategories)
	}
	if len(g.SiteMechanics) > MaxSiteMechanics {
		return conflict("Cannot have more than %d site mechanics", MaxSiteMechanics)
	}

	for _, u := range []struct{ label, value string }{
		{"Image URL", g.ImageURL},
		{"Thumbnail URL", g.ThumbnailURL},
		{"Japanese image URL", g.JapaneseImageURL},
	} {
		if err := checkURL(u.label, u.value); err != nil {
			return err
		}
	}
	return nil
}

// CheckCatalogID validates a catalog id and makes sure no game other than selfID owns it.
// Site-local ids ("jp-<n>") only get a format check.
func CheckCatalogID(ctx context.Context, games domain.GameRepository, bggID string, selfID int64) error {
	if bggID == "" {
		return conflict("BGG ID is required")
	}
	if strings.HasPrefix(bggID, LocalIDPrefix) {
		if !localID.MatchString(bggID) {
			return conflict("Invalid Japanese game ID format")
		}
		return nil
	}

	n, err := strconv.ParseInt(bggID, 10, 64)
	if err != nil || n <= 0 {
		return conflict("BGG ID must be a positive number")
	}

	owner, err := games.FindByExternalID(ctx, bggID)
	switch {
	case domain.IsNotFound(err):
		return nil
	case err != nil:
		return fmt.Errorf("find game by external id: %w", err)
	case owner.ID != selfID:
		return domain.Conflict(domain.RuleDuplicate, "BGG ID %s is already used by game: %s", bggID, owner.Name)
	}
	return nil
}

func checkURL(label, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return conflict("%s is not a valid URL format", label)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return conflict("%s must use HTTP or HTTPS protocol", label)
	}
	return nil
}

func hasDuplicates(items []string) bool {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			return true
		}
		seen[it] = struct{}{}
	}
	return false
}

func conflict(format string, args ...any) error {
	return domain.Conflict(domain.RuleConsistency, format, args...)
}
