package snapshot

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// writeManifest records what a snapshot holds: creation time, trigger
// reason, source directory, then one OK/FAIL line per processed file in
// processing order. Plain text, fixed field order.
func writeManifest(path string, created time.Time, reason, sourceDir string, files []FileResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "created: %s\n", created.Format(Layout))
	fmt.Fprintf(&b, "reason: %s\n", reason)
	fmt.Fprintf(&b, "source: %s\n", sourceDir)
	b.WriteString("files:\n")
	for _, f := range files {
		if f.OK {
			fmt.Fprintf(&b, "OK %s (%s)\n", f.Name, humanize.Bytes(uint64(f.Size)))
		} else {
			fmt.Fprintf(&b, "FAIL %s\n", f.Name)
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
