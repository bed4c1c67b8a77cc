package version

import (
	"runtime"
	"time"
)

// Set at build time through -ldflags "-X github.com/MrSnakeDoc/stash/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)
