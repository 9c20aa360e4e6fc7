// Package discover resolves caller-supplied paths into the list of Markdown documents to process.
package discover

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Markdown resolves each input path to concrete document paths.
//
// A directory contributes its immediate entries whose names end in ext
// (case-insensitive); subdirectories are not descended into. A file is
// included when its own name matches. Anything else is skipped with a
// warning. The result is sorted lexicographically; an empty result is a
// valid outcome left for the caller to act on.
func Markdown(paths []string, ext string, logger *slog.Logger) []string {
	var results []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			logger.Warn("ignoring input path",
				slog.String("path", p),
				slog.String("error", err.Error()))
			continue
		}

		switch {
		case info.IsDir():
			entries, err := os.ReadDir(p)
			if err != nil {
				logger.Warn("ignoring unreadable directory",
					slog.String("path", p),
					slog.String("error", err.Error()))
				continue
			}
			for _, e := range entries {
				if e.IsDir() || !hasExt(e.Name(), ext) {
					continue
				}
				results = append(results, filepath.Join(p, e.Name()))
			}

		case hasExt(info.Name(), ext):
			results = append(results, p)

		default:
			logger.Warn("ignoring input path: not a markdown file or directory",
				slog.String("path", p))
		}
	}
	sort.Strings(results)
	return results
}

func hasExt(name, ext string) bool {
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext))
}
