package domain

import "context"

// GameRepository persists admitted games. Lookups that find nothing return a *NotFoundError.
type GameRepository interface {
	FindByID(ctx context.Context, id int64) (*Game, error)
	FindByExternalID(ctx context.Context, bggID string) (*Game, error)
	// FindByNormalizedName matches games whose normalized name or localized name equals name.
	FindByNormalizedName(ctx context.Context, name string) ([]*Game, error)
	FindAll(ctx context.Context) ([]*Game, error)
	// Save stores a new game and assigns its ID.
	Save(ctx context.Context, g *Game) error
	Update(ctx context.Context, g *Game) error
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	FindByID(ctx context.Context, id string) (*Review, error)
	FindByUserAndGame(ctx context.Context, userID string, gameID int64) ([]*Review, error)
	FindByGame(ctx context.Context, gameID int64) ([]*Review, error)
	FindAll(ctx context.Context) ([]*Review, error)
	// Save stores a new review and assigns its ID when empty.
	Save(ctx context.Context, r *Review) error
	Update(ctx context.Context, r *Review) error
}

// UserRepository resolves acting users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	Save(ctx context.Context, u *User) error
}
