// Package version holds build identification, overridable via ldflags:
//
//	-X github.com/dgallion1/folio-mcp/internal/version.Version=v1.2.3
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func String() string {
	return fmt.Sprintf("folio-mcp %s (commit: %s, built: %s)", Version, Commit, BuildDate)
}
