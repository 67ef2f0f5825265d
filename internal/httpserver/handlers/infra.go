package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/respond"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Games      *int   `json:"games,omitempty"`
	Reviews    *int   `json:"reviews,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the catalog, the storage backend and the remote catalog.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games := d.MemoryIndex.GameCount()
		reviews := d.MemoryIndex.ReviewCount()
		lastReload := "never"
		if t := d.MemoryIndex.GetLastReload(); !t.IsZero() {
			lastReload = t.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"catalog": {
				OK:         true,
				Games:      &games,
				Reviews:    &reviews,
				LastReload: lastReload,
			},
			"storage":        checkStorage(r.Context(), d),
			"remote_catalog": checkRemote(d),
		}

		respond.JSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	// Storage down means writes fail
	if s, ok := components["storage"]; ok && !s.OK {
		return "critical"
	}
	// Remote down only blocks reconciliation
	if c, ok := components["remote_catalog"]; ok && !c.OK {
		return "degraded"
	}
	return "operational"
}

func checkStorage(ctx context.Context, d deps.Deps) componentStatus {
	if d.Storage == nil {
		return componentStatus{OK: true, Mode: d.StorageMode, Impact: "data-lost-on-restart"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := d.Storage.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.StorageMode, Impact: "writes-failing", Error: "timeout"}
	}
	return componentStatus{OK: true, Mode: d.StorageMode}
}

func checkRemote(d deps.Deps) componentStatus {
	if d.Catalog == nil {
		return componentStatus{OK: false, Error: "client not initialized"}
	}
	state := d.Catalog.BreakerState()
	if state == "open" {
		return componentStatus{OK: false, Mode: state, Impact: "reconciliation-unavailable"}
	}
	return componentStatus{OK: true, Mode: state}
}
