package reconcile

import (
	"strconv"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/localize"
	"github.com/MrSnakeDoc/bgr/internal/taxonomy"
)

// resolved is everything derived from one catalog record before the duplicate scan.
type resolved struct {
	game      domain.Game
	candidate *domain.LocalizedVersionCandidate
	identity  domain.DisplayIdentity
}

// resolve maps rec through the taxonomy and the localized version resolver.
// The game is not validated yet.
func resolve(rec *domain.CatalogRecord, mapper *taxonomy.Mapper) resolved {
	mapped := mapper.Map(taxonomy.Input{
		Categories:              rec.Categories,
		Mechanics:               rec.Mechanics,
		Publishers:              rec.Publishers,
		BestPlayerCounts:        rec.BestPlayerCounts,
		RecommendedPlayerCounts: rec.RecommendedPlayerCounts,
	})

	cand := localize.Resolve(rec, rec.Versions)

	var localizedName, localizedPublisher string
	if cand != nil {
		localizedName = cand.Name
		if cand.Publisher != "" {
			localizedPublisher = mapper.NormalizePublisher(cand.Publisher)
		}
	}
	originalPublisher := ""
	if len(mapped.Publishers) > 0 {
		originalPublisher = mapped.Publishers[0]
	}
	identity := localize.DecideDisplayIdentity(rec.Name, localizedName, originalPublisher, localizedPublisher)

	g := domain.Game{
		BGGID:                   strconv.FormatInt(rec.ExternalID, 10),
		Name:                    rec.Name,
		Description:             rec.Description,
		YearPublished:           positive(rec.YearPublished),
		MinPlayers:              positive(rec.MinPlayers),
		MaxPlayers:              positive(rec.MaxPlayers),
		PlayingTime:             nonNegative(rec.PlayingTime),
		MinPlayTime:             nonNegative(rec.MinPlayTime),
		MaxPlayTime:             nonNegative(rec.MaxPlayTime),
		MinAge:                  nonNegative(rec.MinAge),
		ImageURL:                rec.ImageURL,
		ThumbnailURL:            rec.ThumbnailURL,
		Designers:               dedupe(rec.Designers),
		Publishers:              mapped.Publishers,
		BGGCategories:           dedupe(rec.Categories),
		BGGMechanics:            dedupe(rec.Mechanics),
		SiteCategories:          mapped.SiteCategories,
		SiteMechanics:           mapped.SiteMechanics,
		PlayerCountTags:         mapped.PlayerCountTags,
		BestPlayerCounts:        rec.BestPlayerCounts,
		RecommendedPlayerCounts: rec.RecommendedPlayerCounts,
		RatingAverage:           rec.AverageRating,
	}
	if rec.RatingCount != nil && *rec.RatingCount > 0 {
		g.RatingCount = *rec.RatingCount
	}

	switch identity.Reason {
	case localize.ReasonLocalizedName:
		g.JapaneseName = identity.Name
		g.JapanesePublisher = identity.Publisher
	case localize.ReasonLocalizedPublisher:
		g.JapanesePublisher = identity.Publisher
	}
	if cand != nil {
		g.JapaneseReleaseDate = cand.ReleaseDate
		if cand.ImageURL != rec.ImageURL {
			g.JapaneseImageURL = cand.ImageURL
		}
	}

	return resolved{game: g, candidate: cand, identity: identity}
}

// positive treats the vendor's "0 = unknown" convention as absent.
func positive(p *int) *int {
	if p == nil || *p <= 0 {
		return nil
	}
	return domain.IntPtr(*p)
}

func nonNegative(p *int) *int {
	if p == nil || *p < 0 {
		return nil
	}
	return domain.IntPtr(*p)
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
