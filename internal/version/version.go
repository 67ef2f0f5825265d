package version

import (
	"runtime"
	"time"
)

// Set through -ldflags at build time.
var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-15T18:42:00Z
	GoVersion = runtime.Version()               // go version
)

// UserAgentSuffix is appended to outbound User-Agent headers when set.
func UserAgentSuffix() string {
	if Version == "dev" {
		return ""
	}
	return " bgr/" + Version
}
