package index

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/similarity"
)

// MemoryIndex holds the catalog, reviews and users in memory.
// It is the storage backend in memory mode and the read-through copy of Redis otherwise.
// Values are copied on the way in and on the way out.
type MemoryIndex struct {
	mu         sync.RWMutex
	games      map[int64]*domain.Game   // ID -> Game
	byBGGID    map[string]int64         // BGGID -> ID
	reviews    map[string]*domain.Review // ID -> Review
	users      map[string]*domain.User   // ID -> User
	nextGameID int64
	lastReload time.Time // Timestamp of last full reload
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		games:   make(map[int64]*domain.Game),
		byBGGID: make(map[string]int64),
		reviews: make(map[string]*domain.Review),
		users:   make(map[string]*domain.User),
	}
}

// Games exposes the index as a GameRepository.
func (idx *MemoryIndex) Games() *GameStore { return &GameStore{idx: idx} }

// Reviews exposes the index as a ReviewRepository.
func (idx *MemoryIndex) Reviews() *ReviewStore { return &ReviewStore{idx: idx} }

// Users exposes the index as a UserRepository.
func (idx *MemoryIndex) Users() *UserStore { return &UserStore{idx: idx} }

// Replace swaps the whole content of the index.
func (idx *MemoryIndex) Replace(games []*domain.Game, reviews []*domain.Review, users []*domain.User) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.games = make(map[int64]*domain.Game, len(games))
	idx.byBGGID = make(map[string]int64, len(games))
	idx.nextGameID = 0
	for _, g := range games {
		c := g.Clone()
		idx.games[c.ID] = &c
		if c.BGGID != "" {
			idx.byBGGID[c.BGGID] = c.ID
		}
		idx.nextGameID = max(idx.nextGameID, c.ID)
	}
	idx.reviews = make(map[string]*domain.Review, len(reviews))
	for _, r := range reviews {
		c := r.Clone()
		idx.reviews[c.ID] = &c
	}
	idx.users = make(map[string]*domain.User, len(users))
	for _, u := range users {
		c := *u
		idx.users[c.ID] = &c
	}
	idx.lastReload = time.Now()
}

// GameCount returns the number of games in the index.
func (idx *MemoryIndex) GameCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.games)
}

// ReviewCount returns the number of reviews in the index.
func (idx *MemoryIndex) ReviewCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.reviews)
}

// GetLastReload returns the timestamp of the last Replace.
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// ─────────────────────────────────────────────────────────────────
// Games
// ─────────────────────────────────────────────────────────────────

// GameStore is the GameRepository view of a MemoryIndex.
type GameStore struct{ idx *MemoryIndex }

var _ domain.GameRepository = (*GameStore)(nil)

func (s *GameStore) FindByID(_ context.Context, id int64) (*domain.Game, error) {
	s.idx.mu.RLock()
	defer s.idx.mu.RUnlock()

	g, ok := s.idx.games[id]
	if !ok {
		return nil, domain.NotFound(domain.KindGame, id)
	}
	c := g.Clone()
	return &c, nil
}

func (s *GameStore) FindByExternalID(_ context.Context, bggID string) (*domain.Game, error) {
	s.idx.mu.RLock()
	defer s.idx.mu.RUnlock()

	id, ok := s.idx.byBGGID[bggID]
	if !ok {
		return nil, domain.NotFound(domain.KindGame, bggID)
	}
	c := s.idx.games[id].Clone()
	return &c, nil
}

func (s *GameStore) FindByNormalizedName(_ context.Context, name string) ([]*domain.Game, error) {
	key := similarity.Normalize(name)
	if key == "" {
		return nil, nil
	}

	s.idx.mu.RLock()
	defer s.idx.mu.RUnlock()

	var out []*domain.Game
	for _, g := range s.idx.sortedGames() {
		if similarity.Normalize(g.Name) == key || (g.JapaneseName != "" && similarity.Normalize(g.JapaneseName) == key) {
			c := g.Clone()
			out = append(out, &c)
		}
	}
	return out, nil
}

// FindAll returns every game ordered by ID.
func (s *GameStore) FindAll(_ context.Context) ([]*domain.Game, error) {
	s.idx.mu.RLock()
	defer s.idx.mu.RUnlock()

	games := s.idx.sortedGames()
	out := make([]*domain.Game, 0, len(games))
	for _, g := range games {
		c := g.Clone()
		out = append(out, &c)
	}
	return out, nil
}

// Save stores a new game. An ID of zero is assigned the next free ID.
func (s *GameStore) Save(_ context.Context, g *domain.Game) error {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	if g.BGGID != "" {
		if owner, ok := s.idx.byBGGID[g.BGGID]; ok && owner != g.ID {
			return domain.Conflict(domain.RuleDuplicate, "BGG ID %s is already used by game %d", g.BGGID, owner)
		}
	}
	if g.ID == 0 {
		s.idx.nextGameID++
		g.ID = s.idx.nextGameID
	} else {
		s.idx.nextGameID = max(s.idx.nextGameID, g.ID)
	}
	s.idx.putGame(g)
	return nil
}

func (s *GameStore) Update(_ context.Context, g *domain.Game) error {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	old, ok := s.idx.games[g.ID]
	if !ok {
		return domain.NotFound(domain.KindGame, g.ID)
	}
	if old.BGGID != g.BGGID {
		delete(s.idx.byBGGID, old.BGGID)
	}
	s.idx.putGame(g)
	return nil
}

// Put stores g as is, keeping its ID. Used when mirroring another store.
func (s *GameStore) Put(g *domain.Game) {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	s.idx.nextGameID = max(s.idx.nextGameID, g.ID)
	s.idx.putGame(g)
}

func (idx *MemoryIndex) putGame(g *domain.Game) {
	c := g.Clone()
	idx.games[c.ID] = &c
	if c.BGGID != "" {
		idx.byBGGID[c.BGGID] = c.ID
	}
}

func (idx *MemoryIndex) sortedGames() []*domain.Game {
	games := make([]*domain.Game, 0, len(idx.games))
	for _, g := range idx.games {
		games = append(games, g)
	}
	slices.SortFunc(games, func(a, b *domain.Game) int { return cmp.Compare(a.ID, b.ID) })
	return games
}

// ─────────────────────────────────────────────────────────────────
// Reviews
// ─────────────────────────────────────────────────────────────────

// ReviewStore is the ReviewRepository view of a MemoryIndex.
type ReviewStore struct{ idx *MemoryIndex }

var _ domain.ReviewRepository = (*ReviewStore)(nil)

func (s *ReviewStore) FindByID(_ context.Context, id string) (*domain.Review, error) {
	s.idx.mu.RLock()
	defer s.idx.mu.RUnlock()

	r, ok := s.idx.reviews[id]
	if !ok {
		return nil, domain.NotFound(domain.KindReview, id)
	}
	c := r.Clone()
	return &c, nil
}

func (s *ReviewStore) FindByUserAndGame(_ context.Context, userID string, gameID int64) ([]*domain.Review, error) {
	return s.filter(func(r *domain.Review) bool { return r.UserID == userID && r.GameID == gameID }), nil
}

func (s *ReviewStore) FindByGame(_ context.Context, gameID int64) ([]*domain.Review, error) {
	return s.filter(func(r *domain.Review) bool { return r.GameID == gameID }), nil
}

func (s *ReviewStore) FindAll(_ context.Context) ([]*domain.Review, error) {
	return s.filter(func(*domain.Review) bool { return true }), nil
}

// Save stores a new review, assigning a UUID when ID is empty.
func (s *ReviewStore) Save(_ context.Context, r *domain.Review) error {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if _, exists := s.idx.reviews[r.ID]; exists {
		return domain.Conflict(domain.RuleUniqueness, "review %s already exists", r.ID)
	}
	c := r.Clone()
	s.idx.reviews[c.ID] = &c
	return nil
}

func (s *ReviewStore) Update(_ context.Context, r *domain.Review) error {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	if _, ok := s.idx.reviews[r.ID]; !ok {
		return domain.NotFound(domain.KindReview, r.ID)
	}
	c := r.Clone()
	s.idx.reviews[c.ID] = &c
	return nil
}

// Put stores r as is. Used when mirroring another store.
func (s *ReviewStore) Put(r *domain.Review) {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	c := r.Clone()
	s.idx.reviews[c.ID] = &c
}

// filter returns copies of the matching reviews, oldest first.
func (s *ReviewStore) filter(keep func(*domain.Review) bool) []*domain.Review {
	s.idx.mu.RLock()
	defer s.idx.mu.RUnlock()

	var out []*domain.Review
	for _, r := range s.idx.reviews {
		if keep(r) {
			c := r.Clone()
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Review) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// ─────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────

// UserStore is the UserRepository view of a MemoryIndex.
type UserStore struct{ idx *MemoryIndex }

var _ domain.UserRepository = (*UserStore)(nil)

func (s *UserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.idx.mu.RLock()
	defer s.idx.mu.RUnlock()

	u, ok := s.idx.users[id]
	if !ok {
		return nil, domain.NotFound(domain.KindUser, id)
	}
	c := *u
	return &c, nil
}

// Save stores or replaces u.
func (s *UserStore) Save(_ context.Context, u *domain.User) error {
	s.idx.mu.Lock()
	defer s.idx.mu.Unlock()

	c := *u
	s.idx.users[c.ID] = &c
	return nil
}
