// Package taxonomy translates vendor categories, mechanics and publishers into
// the site's own vocabulary.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// Tables is the mapping data. It is read once and never mutated afterwards.
type Tables struct {
	CategoryToSiteCategory map[string]string `yaml:"category_to_site_category"`
	CategoryToSiteMechanic map[string]string `yaml:"category_to_site_mechanic"`
	MechanicToSiteCategory map[string]string `yaml:"mechanic_to_site_category"`
	MechanicToSiteMechanic map[string]string `yaml:"mechanic_to_site_mechanic"`
	PlayerCountTags        map[int]string    `yaml:"player_count_tags"`
	Publishers             map[string]string `yaml:"publishers"`
}

// ParseTables decodes YAML mapping tables.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy tables: %w", err)
	}
	lowered := make(map[string]string, len(t.Publishers))
	for k, v := range t.Publishers {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}
	t.Publishers = lowered
	return &t, nil
}

// LoadTables reads tables from a YAML file.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy tables: %w", err)
	}
	return ParseTables(data)
}

var defaultMapper = sync.OnceValue(func() *Mapper {
	t, err := ParseTables(defaultTablesYAML)
	if err != nil {
		panic(err)
	}
	return NewMapper(t)
})

// Default returns the mapper built from the embedded tables.
func Default() *Mapper { return defaultMapper() }

// Input is the vendor-side data of one game.
type Input struct {
	Categories              []string
	Mechanics               []string
	Publishers              []string
	BestPlayerCounts        []int
	RecommendedPlayerCounts []int
}

// Result is the site-side taxonomy. Every list is duplicate free and keeps first-seen order.
type Result struct {
	SiteCategories  []string
	SiteMechanics   []string
	PlayerCountTags []string
	Publishers      []string
}

// Mapper applies Tables.
type Mapper struct {
	tables *Tables
}

// NewMapper wraps t.
func NewMapper(t *Tables) *Mapper {
	return &Mapper{tables: t}
}

// Map translates in. Unmapped categories and mechanics are dropped;
// unmapped publishers pass through unchanged.
func (m *Mapper) Map(in Input) Result {
	categories := newOrderedSet()
	mechanics := newOrderedSet()

	for _, c := range in.Categories {
		categories.add(m.tables.CategoryToSiteCategory[c])
		mechanics.add(m.tables.CategoryToSiteMechanic[c])
	}
	for _, mech := range in.Mechanics {
		categories.add(m.tables.MechanicToSiteCategory[mech])
		mechanics.add(m.tables.MechanicToSiteMechanic[mech])
	}

	return Result{
		SiteCategories:  categories.items,
		SiteMechanics:   mechanics.items,
		PlayerCountTags: m.PlayerCountTags(in.BestPlayerCounts, in.RecommendedPlayerCounts),
		Publishers:      m.NormalizePublishers(in.Publishers),
	}
}

// PlayerCountTags unions best and recommended counts, then looks up their tags.
func (m *Mapper) PlayerCountTags(best, recommended []int) []string {
	seen := make(map[int]bool, len(best)+len(recommended))
	tags := newOrderedSet()
	for _, counts := range [][]int{best, recommended} {
		for _, n := range counts {
			if seen[n] {
				continue
			}
			seen[n] = true
			tags.add(m.tables.PlayerCountTags[n])
		}
	}
	return tags.items
}

// NormalizePublisher maps a vendor publisher name to the site spelling.
func (m *Mapper) NormalizePublisher(name string) string {
	if v, ok := m.tables.Publishers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return v
	}
	return name
}

// NormalizePublishers normalizes and dedupes names.
func (m *Mapper) NormalizePublishers(names []string) []string {
	out := newOrderedSet()
	for _, n := range names {
		out.add(m.NormalizePublisher(n))
	}
	return out.items
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet { return &orderedSet{seen: make(map[string]bool)} }

func (s *orderedSet) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}
