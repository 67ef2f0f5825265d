package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/utils"
)

type syncResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Sync triggers a manual hot-list synchronisation.
func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SyncTrigger == nil {
			respond.Fail(w, http.StatusServiceUnavailable, "SYNC_DISABLED", "hot-list sync is disabled")
			return
		}

		ip := utils.ClientIP(r, d.TrustProxy)
		select {
		case d.SyncTrigger <- struct{}{}:
			d.Logger.Info("manual hot-list sync triggered via endpoint", logger.String("client_ip", ip))
			respond.JSON(w, http.StatusAccepted, syncResponse{Triggered: true, Message: "sync triggered"})
		default:
			d.Logger.Warn("hot-list sync already pending", logger.String("client_ip", ip))
			respond.JSON(w, http.StatusTooManyRequests, syncResponse{Message: "sync already pending, please wait"})
		}
	}
}
