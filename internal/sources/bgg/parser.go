package bgg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

const suggestedPlayersPoll = "suggested_numplayers"

// bestVoteShare is the minimum share of "Best" votes, in percent, for a player count to be best.
const bestVoteShare = 30.0

var (
	htmlTag             = regexp.MustCompile(`<[^>]*>`)
	descriptionEntities = strings.NewReplacer(
		"&quot;", `"`,
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&#10;", "\n",
	)
)

func decode[T any](payload []byte) ([]T, error) {
	var doc itemsNode[T]
	if err := xml.NewDecoder(bytes.NewReader(payload)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog xml: %w", err)
	}
	return doc.Items, nil
}

// ParseThing parses a thing payload. It returns (nil, nil) when the payload holds no item.
// A record without a positive id is a *domain.MalformedCatalogDataError.
func ParseThing(payload []byte) (*domain.CatalogRecord, error) {
	items, err := decode[thingNode](payload)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	item := items[0]

	id, err := strconv.ParseInt(strings.TrimSpace(item.ID), 10, 64)
	if err != nil || id <= 0 {
		return nil, &domain.MalformedCatalogDataError{ExternalID: item.ID, Reason: "missing or invalid item id"}
	}

	rec := &domain.CatalogRecord{
		ExternalID:    id,
		Name:          primaryName(item.Names),
		Names:         alternateNames(item.Names),
		Description:   cleanDescription(item.Description),
		YearPublished: parseInt(item.YearPublished.Value),
		MinPlayers:    parseInt(item.MinPlayers.Value),
		MaxPlayers:    parseInt(item.MaxPlayers.Value),
		PlayingTime:   parseInt(item.PlayingTime.Value),
		MinPlayTime:   parseInt(item.MinPlayTime.Value),
		MaxPlayTime:   parseInt(item.MaxPlayTime.Value),
		MinAge:        parseInt(item.MinAge.Value),
		ImageURL:      strings.TrimSpace(item.Image),
		ThumbnailURL:  strings.TrimSpace(item.Thumbnail),
		Categories:    linkValues(item.Links, domain.LinkCategory),
		Mechanics:     linkValues(item.Links, domain.LinkMechanic),
		Designers:     linkValues(item.Links, domain.LinkDesigner),
		Publishers:    linkValues(item.Links, domain.LinkPublisher),
		AverageRating: parseFloat(item.Statistics.Ratings.Average.Value),
		RatingCount:   parseInt(item.Statistics.Ratings.UsersRated.Value),
	}

	for _, p := range item.Polls {
		if p.Name == suggestedPlayersPoll {
			rec.BestPlayerCounts, rec.RecommendedPlayerCounts = playerCountVotes(p)
			break
		}
	}

	for _, v := range item.Versions {
		vid, _ := strconv.ParseInt(strings.TrimSpace(v.ID), 10, 64)
		name := ""
		if len(v.Names) > 0 {
			name = primaryName(v.Names)
		}
		rec.Versions = append(rec.Versions, domain.VersionEntry{
			ID:            vid,
			Name:          name,
			Publishers:    linkValues(v.Links, domain.LinkPublisher),
			YearPublished: parseInt(v.YearPublished.Value),
			ImageURL:      strings.TrimSpace(v.Image),
		})
	}

	return rec, nil
}

// ParseSearch parses a search payload. Items without a usable id are skipped.
func ParseSearch(payload []byte) ([]domain.SearchResult, error) {
	items, err := decode[searchNode](payload)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SearchResult, 0, len(items))
	for _, it := range items {
		id, err := strconv.ParseInt(strings.TrimSpace(it.ID), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		name := ""
		if len(it.Names) > 0 {
			name = primaryName(it.Names)
		}
		out = append(out, domain.SearchResult{
			ExternalID:    id,
			Name:          name,
			YearPublished: parseInt(it.YearPublished.Value),
		})
	}
	return out, nil
}

// ParseHot parses a hot list payload. Items without a usable id are skipped.
func ParseHot(payload []byte) ([]domain.HotListEntry, error) {
	items, err := decode[hotNode](payload)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HotListEntry, 0, len(items))
	for _, it := range items {
		id, err := strconv.ParseInt(strings.TrimSpace(it.ID), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		rank := 0
		if r := parseInt(it.Rank); r != nil {
			rank = *r
		}
		out = append(out, domain.HotListEntry{
			ExternalID:    id,
			Rank:          rank,
			Name:          it.Name.Value,
			YearPublished: parseInt(it.YearPublished.Value),
			ThumbnailURL:  it.Thumbnail.Value,
		})
	}
	return out, nil
}

// primaryName picks the primary name, else the first one, else the placeholder.
func primaryName(names []nameNode) string {
	for _, n := range names {
		if n.Type == domain.NameTypePrimary && n.Value != "" {
			return n.Value
		}
	}
	if len(names) > 0 && names[0].Value != "" {
		return names[0].Value
	}
	return domain.UnknownGameName
}

func alternateNames(names []nameNode) []domain.AlternateName {
	if len(names) == 0 {
		return nil
	}
	out := make([]domain.AlternateName, 0, len(names))
	for _, n := range names {
		out = append(out, domain.AlternateName{Type: n.Type, Value: n.Value})
	}
	return out
}

func linkValues(links []linkNode, linkType string) []string {
	var out []string
	for _, l := range links {
		if l.Type == linkType {
			out = append(out, l.Value)
		}
	}
	return out
}

func cleanDescription(s string) string {
	s = htmlTag.ReplaceAllString(s, "")
	return strings.TrimSpace(descriptionEntities.Replace(s))
}

// playerCountVotes reads the suggested player count poll. Open-ended rows ("4+") are ignored.
func playerCountVotes(p pollNode) (best, recommended []int) {
	for _, r := range p.Results {
		n, err := strconv.Atoi(strings.TrimSpace(r.NumPlayers))
		if err != nil {
			continue
		}

		var bestVotes, recVotes, notRecVotes int
		for _, v := range r.Votes {
			count, _ := strconv.Atoi(v.NumVotes)
			switch v.Value {
			case "Best":
				bestVotes = count
			case "Recommended":
				recVotes = count
			case "Not Recommended":
				notRecVotes = count
			}
		}

		total := bestVotes + recVotes + notRecVotes
		if total == 0 {
			continue
		}
		if float64(bestVotes)/float64(total)*100 >= bestVoteShare {
			best = append(best, n)
		}
		if bestVotes+recVotes > notRecVotes {
			recommended = append(recommended, n)
		}
	}
	return best, recommended
}

func parseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
