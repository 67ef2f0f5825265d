package domain

// Link types carried by catalog records.
const (
	LinkCategory  = "boardgamecategory"
	LinkMechanic  = "boardgamemechanic"
	LinkDesigner  = "boardgamedesigner"
	LinkPublisher = "boardgamepublisher"
)

// NameTypePrimary tags the canonical name of a record.
const NameTypePrimary = "primary"

// UnknownGameName is used when a record carries no name at all.
const UnknownGameName = "Unknown Game"

// CatalogRecord is a game as described by the remote catalog, before reconciliation.
// Optional numeric fields are nil when missing or unparsable.
type CatalogRecord struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	ExternalID int64
	Name       string
	Names      []AlternateName

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Description   string
	YearPublished *int
	MinPlayers    *int
	MaxPlayers    *int
	PlayingTime   *int
	MinPlayTime   *int
	MaxPlayTime   *int
	MinAge        *int
	ImageURL      string
	ThumbnailURL  string

	// ─────────────────────────────
	// Vendor taxonomy
	// ─────────────────────────────

	Categories []string
	Mechanics  []string
	Designers  []string
	Publishers []string

	// ─────────────────────────────
	// Community data
	// ─────────────────────────────

	AverageRating *float64
	RatingCount   *int

	// BestPlayerCounts and RecommendedPlayerCounts come from the suggested player count poll.
	BestPlayerCounts        []int
	RecommendedPlayerCounts []int

	// Versions is only filled when the record was requested with versions.
	Versions []VersionEntry
}

// AlternateName is one entry of a record's name list.
type AlternateName struct {
	Type  string // "primary" | "alternate"
	Value string
}

// VersionEntry is a regional edition of a record.
type VersionEntry struct {
	ID            int64
	Name          string
	Publishers    []string
	YearPublished *int
	ImageURL      string
}

// SearchResult is one hit of a remote catalog search.
type SearchResult struct {
	ExternalID    int64  `json:"id"`
	Name          string `json:"name"`
	YearPublished *int   `json:"year_published,omitempty"`
}

// HotListEntry is one entry of the remote "hot" list.
type HotListEntry struct {
	ExternalID    int64  `json:"id"`
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	YearPublished *int   `json:"year_published,omitempty"`
	ThumbnailURL  string `json:"thumbnail,omitempty"`
}

// LocalizedVersionCandidate is the best localized identity found for a record.
// Priority: 4 kana, 3 japan keyword + japanese publisher, 2 japan keyword, 1 kanji only.
type LocalizedVersionCandidate struct {
	Name        string
	Publisher   string
	ReleaseDate string // YYYY-01-01 when only the year is known
	ImageURL    string
	Priority    int
}

// Localized version priorities.
const (
	PriorityNone      = 0
	PriorityKanjiOnly = 1
	PriorityKeyword   = 2
	PriorityPublisher = 3
	PriorityKana      = 4
)

// DisplayIdentity is the name and publisher chosen for registration.
type DisplayIdentity struct {
	Name      string
	Publisher string
	Reason    string
}
