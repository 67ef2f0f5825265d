package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/utils"
)

// AllowOnlyCIDRS restricts admin routes to specific IPs/CIDRs. An empty list does NOT filter (passthrough).
// trustProxy should be true when running behind a trusted reverse proxy/tunnel (e.g., cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("AllowOnlyCIDRS: empty matcher, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debugf("AllowOnlyCIDRS: initialized with %d rules, trustProxy=%v", len(allowed), trustProxy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("admin route rejected",
					logger.String("client_ip", ip),
					logger.String("path", r.URL.Path))
				respond.Fail(w, http.StatusForbidden, domain.CodeForbidden, "client address not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
