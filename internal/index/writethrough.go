package index

import (
	"context"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

// Repositories groups the three repositories the services depend on.
type Repositories struct {
	Games   domain.GameRepository
	Reviews domain.ReviewRepository
	Users   domain.UserRepository
}

// Repositories returns the index itself as the storage backend.
func (idx *MemoryIndex) Repositories() Repositories {
	return Repositories{Games: idx.Games(), Reviews: idx.Reviews(), Users: idx.Users()}
}

// WriteThrough serves reads from the index and sends every write to backend first.
// The index only changes once the backend accepted the write, so IDs are the backend's.
func (idx *MemoryIndex) WriteThrough(backend Repositories) Repositories {
	return Repositories{
		Games:   &writeThroughGames{GameStore: idx.Games(), backend: backend.Games},
		Reviews: &writeThroughReviews{ReviewStore: idx.Reviews(), backend: backend.Reviews},
		Users:   &writeThroughUsers{UserStore: idx.Users(), backend: backend.Users},
	}
}

type writeThroughGames struct {
	*GameStore
	backend domain.GameRepository
}

func (w *writeThroughGames) Save(ctx context.Context, g *domain.Game) error {
	if err := w.backend.Save(ctx, g); err != nil {
		return err
	}
	w.Put(g)
	return nil
}

func (w *writeThroughGames) Update(ctx context.Context, g *domain.Game) error {
	if err := w.backend.Update(ctx, g); err != nil {
		return err
	}
	if err := w.GameStore.Update(ctx, g); err != nil {
		// Known to the backend but not yet mirrored
		w.Put(g)
	}
	return nil
}

type writeThroughReviews struct {
	*ReviewStore
	backend domain.ReviewRepository
}

func (w *writeThroughReviews) Save(ctx context.Context, r *domain.Review) error {
	if err := w.backend.Save(ctx, r); err != nil {
		return err
	}
	w.Put(r)
	return nil
}

func (w *writeThroughReviews) Update(ctx context.Context, r *domain.Review) error {
	if err := w.backend.Update(ctx, r); err != nil {
		return err
	}
	w.Put(r)
	return nil
}

type writeThroughUsers struct {
	*UserStore
	backend domain.UserRepository
}

func (w *writeThroughUsers) Save(ctx context.Context, u *domain.User) error {
	if err := w.backend.Save(ctx, u); err != nil {
		return err
	}
	return w.UserStore.Save(ctx, u)
}
