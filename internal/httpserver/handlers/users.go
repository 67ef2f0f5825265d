package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bgr/internal/logger"
)

// CreateUser registers an account mirrored from the authentication provider.
// An empty id is assigned a UUID. Existing ids are a conflict.
func CreateUser(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.User
		if err := respond.Decode(w, r, &in); err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		if in.ID == "" {
			in.ID = uuid.NewString()
		}
		in.CreatedAt = time.Now().UTC()

		u, err := domain.NewUser(in)
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}

		ctx := r.Context()
		if _, err := d.Users.FindByID(ctx, u.ID); err == nil {
			respond.Error(w, r, d.Logger, domain.Conflict(domain.RuleUniqueness, "user %s already exists", u.ID))
			return
		} else if !domain.IsNotFound(err) {
			respond.Error(w, r, d.Logger, err)
			return
		}

		if err := d.Users.Save(ctx, u); err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		d.Logger.Info("user registered", logger.String("user_id", u.ID), logger.Bool("admin", u.IsAdmin))
		respond.JSON(w, http.StatusCreated, u)
	}
}
