package utils

import (
	"io"

	"github.com/MrSnakeDoc/bgr/internal/logger"
)

// MustClose closes c and logs any error under the given name.
func MustClose(c io.Closer, log logger.Logger, name string) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", name), logger.Error(err))
	}
}

// DrainAndClose discards what is left of an HTTP body so the connection can be reused.
func DrainAndClose(body io.ReadCloser, log logger.Logger) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	MustClose(body, log, "response body")
}
