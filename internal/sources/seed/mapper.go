package seed

import (
	"fmt"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

// Plan is a validated seed file.
type Plan struct {
	ExternalIDs []int64
	Games       []domain.Game
	Users       []domain.User

	// Skipped lists the entries dropped while mapping, with the reason.
	Skipped []string
}

// Empty reports whether the plan has nothing to apply.
func (p *Plan) Empty() bool {
	return len(p.ExternalIDs) == 0 && len(p.Games) == 0 && len(p.Users) == 0
}

// Map validates f. Invalid or repeated entries are skipped and reported in Plan.Skipped;
// an error is returned only when nothing usable is left.
func Map(f *File) (*Plan, error) {
	p := &Plan{}

	seen := make(map[int64]bool, len(f.Games))
	for _, id := range f.Games {
		switch {
		case id <= 0:
			p.Skipped = append(p.Skipped, fmt.Sprintf("games: invalid id %d", id))
		case seen[id]:
			p.Skipped = append(p.Skipped, fmt.Sprintf("games: duplicate id %d", id))
		default:
			seen[id] = true
			p.ExternalIDs = append(p.ExternalIDs, id)
		}
	}

	for i, lg := range f.LocalGames {
		g, err := domain.NewGame(domain.Game{
			Name:           lg.Name,
			JapaneseName:   lg.JapaneseName,
			BGGID:          lg.BGGID,
			Description:    lg.Description,
			YearPublished:  lg.YearPublished,
			MinPlayers:     lg.MinPlayers,
			MaxPlayers:     lg.MaxPlayers,
			PlayingTime:    lg.PlayingTime,
			MinAge:         lg.MinAge,
			ImageURL:       lg.ImageURL,
			Designers:      lg.Designers,
			Publishers:     lg.Publishers,
			SiteCategories: lg.SiteCategories,
			SiteMechanics:  lg.SiteMechanics,
		})
		if err != nil {
			p.Skipped = append(p.Skipped, fmt.Sprintf("local_games[%d]: %v", i, err))
			continue
		}
		p.Games = append(p.Games, *g)
	}

	users := make(map[string]bool, len(f.Users))
	for i, su := range f.Users {
		verified := su.EmailVerified == nil || *su.EmailVerified
		u, err := domain.NewUser(domain.User{
			ID:            su.ID,
			Email:         su.Email,
			Name:          su.Name,
			IsActive:      !su.Inactive,
			EmailVerified: verified,
			IsAdmin:       su.IsAdmin,
		})
		switch {
		case err != nil:
			p.Skipped = append(p.Skipped, fmt.Sprintf("users[%d]: %v", i, err))
		case users[u.ID]:
			p.Skipped = append(p.Skipped, fmt.Sprintf("users[%d]: duplicate id %s", i, u.ID))
		default:
			users[u.ID] = true
			p.Users = append(p.Users, *u)
		}
	}

	if p.Empty() {
		return nil, fmt.Errorf("no valid entries found in seed file (%d skipped)", len(p.Skipped))
	}
	return p, nil
}
