package archive

import (
	"path/filepath"
	"strings"
	"time"
)

// StampLayout is the sortable, filesystem-safe UTC timestamp embedded in
// archive names, e.g. 20240102T030405Z.
const StampLayout = "20060102T150405Z"

// Name builds the archive file name for a source file name and instant:
// "archive.db" becomes "archive-<stamp>.db<contExt>".
func Name(srcName string, ts time.Time, contExt string) string {
	ext := filepath.Ext(srcName)
	base := strings.TrimSuffix(srcName, ext)
	return base + "-" + ts.UTC().Format(StampLayout) + ext + contExt
}

// Stamp parses the timestamp out of an archive file name produced by
// Name for the given source name. The second return is false for names
// that do not belong to this source.
func Stamp(srcName, fileName, contExt string) (time.Time, bool) {
	ext := filepath.Ext(srcName)
	base := strings.TrimSuffix(srcName, ext)

	prefix := base + "-"
	suffix := ext + contExt
	if !strings.HasPrefix(fileName, prefix) || !strings.HasSuffix(fileName, suffix) {
		return time.Time{}, false
	}

	core := strings.TrimSuffix(strings.TrimPrefix(fileName, prefix), suffix)
	t, err := time.Parse(StampLayout, core)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
