// Package vars holds build metadata injected at link time.
package vars

import (
	"fmt"
	"runtime"
)

// Build metadata, set with -ldflags "-X github.com/woozymasta/scs-route-tool/internal/vars.Version=...".
var (
	Version   = "dev"     // semantic version or "dev"
	Commit    = "unknown" // git commit hash
	BuildTime = "unknown" // RFC3339 build timestamp
	URL       = "https://github.com/woozymasta/scs-route-tool"
)

// String returns a one-line version description.
func String() string {
	return fmt.Sprintf("scs-route-tool %s (%s) built %s with %s %s/%s",
		Version, Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Print writes the version information to stdout.
func Print() {
	fmt.Println(String())
	fmt.Println(URL)
}
