// Package localize picks the Japanese identity of a catalog record.
package localize

import (
	"fmt"
	"iter"
	"strings"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/script"
)

// Reasons returned by DecideDisplayIdentity.
const (
	ReasonLocalizedName      = "Japanese version detected with valid Japanese name"
	ReasonLocalizedPublisher = "Japanese publisher detected"
	ReasonOriginal           = "No Japanese version detected, using original"
)

// observation is one scanned source of a localized identity, tagged with its priority.
type observation struct {
	priority int
	apply    func(prev domain.LocalizedVersionCandidate) domain.LocalizedVersionCandidate
}

// outranks is the comparison driving the fold. Only a strictly higher priority
// replaces the current best, so ties keep the first candidate seen.
func outranks(next, current int) bool { return next > current }

// Resolve returns the best localized candidate for rec, or nil when nothing Japanese was found.
// Alternate names are scanned before versions; the first kana match ends the scan.
func Resolve(rec *domain.CatalogRecord, versions []domain.VersionEntry) *domain.LocalizedVersionCandidate {
	if rec == nil {
		return nil
	}
	recordPublisher := FirstJapanesePublisher(rec.Publishers)

	var best domain.LocalizedVersionCandidate
	for obs := range observations(rec, versions, recordPublisher) {
		if !outranks(obs.priority, best.Priority) {
			continue
		}
		best = obs.apply(best)
		if best.Priority == domain.PriorityKana {
			break
		}
	}

	if best.Priority == domain.PriorityNone {
		if recordPublisher == "" {
			return nil
		}
		return &domain.LocalizedVersionCandidate{Publisher: recordPublisher, ImageURL: rec.ImageURL}
	}
	if best.Publisher == "" {
		best.Publisher = recordPublisher
	}
	return &best
}

func observations(rec *domain.CatalogRecord, versions []domain.VersionEntry, recordPublisher string) iter.Seq[observation] {
	return func(yield func(observation) bool) {
		for _, n := range rec.Names {
			if p := namePriority(n.Value); p > domain.PriorityNone {
				name := n.Value
				o := observation{priority: p, apply: func(domain.LocalizedVersionCandidate) domain.LocalizedVersionCandidate {
					return domain.LocalizedVersionCandidate{Name: name, ImageURL: rec.ImageURL, Priority: p}
				}}
				if !yield(o) {
					return
				}
			}
		}

		for _, v := range versions {
			versionPublisher := FirstJapanesePublisher(v.Publishers)
			p := versionPriority(v.Name, versionPublisher != "")
			if p == domain.PriorityNone {
				continue
			}
			o := observation{priority: p, apply: func(prev domain.LocalizedVersionCandidate) domain.LocalizedVersionCandidate {
				next := domain.LocalizedVersionCandidate{
					Name:      prev.Name,
					Publisher: versionPublisher,
					ImageURL:  prev.ImageURL,
					Priority:  p,
				}
				if script.IsValidLocalizedName(v.Name) {
					next.Name = v.Name
				}
				if next.Publisher == "" {
					next.Publisher = recordPublisher
				}
				if v.YearPublished != nil && *v.YearPublished > 0 {
					next.ReleaseDate = fmt.Sprintf("%04d-01-01", *v.YearPublished)
				}
				if v.ImageURL != "" {
					next.ImageURL = v.ImageURL
				}
				if next.ImageURL == "" {
					next.ImageURL = rec.ImageURL
				}
				return next
			}}
			if !yield(o) {
				return
			}
		}
	}
}

func namePriority(name string) int {
	if !script.IsValidLocalizedName(name) {
		return domain.PriorityNone
	}
	switch {
	case script.HasKana(name):
		return domain.PriorityKana
	case script.HasKanjiOnly(name) && !script.HasHanZh(name):
		return domain.PriorityKanjiOnly
	default:
		return domain.PriorityNone
	}
}

func versionPriority(name string, japanesePublisher bool) int {
	keyword := hasJapanKeyword(name)
	switch {
	case script.HasKana(name):
		return domain.PriorityKana
	case keyword && japanesePublisher:
		return domain.PriorityPublisher
	case keyword:
		return domain.PriorityKeyword
	case script.HasKanjiOnly(name) && !script.HasHanZh(name):
		return domain.PriorityKanjiOnly
	default:
		return domain.PriorityNone
	}
}

func hasJapanKeyword(name string) bool {
	return strings.Contains(strings.ToLower(name), "japan") || strings.Contains(name, "日本語")
}

// DecideDisplayIdentity chooses the name and publisher used to register a game.
func DecideDisplayIdentity(originalName, localizedName, originalPublisher, localizedPublisher string) domain.DisplayIdentity {
	if localizedName != "" && script.IsValidLocalizedName(localizedName) {
		publisher := localizedPublisher
		if publisher == "" {
			publisher = originalPublisher
		}
		return domain.DisplayIdentity{Name: localizedName, Publisher: publisher, Reason: ReasonLocalizedName}
	}
	if localizedPublisher != "" {
		return domain.DisplayIdentity{Name: originalName, Publisher: localizedPublisher, Reason: ReasonLocalizedPublisher}
	}
	return domain.DisplayIdentity{Name: originalName, Publisher: originalPublisher, Reason: ReasonOriginal}
}
