package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialVersion is the version stamp a configuration carries at creation.
const InitialVersion = "1.0"

// bumpVersion advances a "major.minor" version stamp by one minor step.
// Versions are opaque tags compared by equality, so "1.9" advances to "1.10".
// An unparsable stamp restarts at the initial version before bumping.
func bumpVersion(v string) string {
	parts := strings.SplitN(v, ".", 2)
	if len(parts) != 2 {
		return "1.1"
	}
	major, errMajor := strconv.Atoi(parts[0])
	minor, errMinor := strconv.Atoi(parts[1])
	if errMajor != nil || errMinor != nil || major < 1 || minor < 0 {
		return "1.1"
	}
	return fmt.Sprintf("%d.%d", major, minor+1)
}
