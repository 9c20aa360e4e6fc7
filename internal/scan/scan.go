// Package scan extracts referenced asset basenames from Markdown text.
//
// This is a best-effort pattern scanner, not a Markdown parser. It applies
// four independent scans and unions their results: inline image syntax,
// HTML <img> tags, reference-style link definitions, and bare asset-folder
// paths. The reference-definition scan deliberately over-approximates
// (it also captures non-image definitions), biasing toward keeping files.
package scan

import (
	"regexp"
	"strings"
)

var (
	// ![alt](target "title")
	inlineImageRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)
	// <img ... src="X"> or <img ... src='X'>
	htmlImageRe = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	// [id]: target at line start
	refDefRe = regexp.MustCompile(`(?m)^\s*\[[^\]]+\]:\s*(\S+)`)
)

// Scanner extracts referenced basenames for documents whose asset
// directories carry a fixed suffix.
type Scanner struct {
	// something.assets/name.png) with either path separator; catches
	// references where the inline-image capture is malformed or nested.
	assetPathRe *regexp.Regexp
}

// New creates a Scanner for the given asset directory suffix (e.g. ".assets").
func New(assetSuffix string) *Scanner {
	return &Scanner{
		assetPathRe: regexp.MustCompile(
			`[\w\-./\\]+` + regexp.QuoteMeta(assetSuffix) + `[/\\]([\w.\- %()+,]+)\)`),
	}
}

// Referenced returns the set of asset basenames the document text references.
// The scans are independent and order-insensitive; duplicates collapse.
func (s *Scanner) Referenced(markdown string) map[string]struct{} {
	refs := make(map[string]struct{})

	for _, m := range inlineImageRe.FindAllStringSubmatch(markdown, -1) {
		raw := strings.TrimSpace(m[1])
		if strings.HasPrefix(raw, "<") && strings.HasSuffix(raw, ">") && len(raw) >= 2 {
			raw = strings.TrimSpace(raw[1 : len(raw)-1])
		}
		// An unquoted trailing title: keep only the target before the
		// first space. Quoted targets (two quote chars) keep the space.
		if strings.Contains(raw, " ") &&
			strings.Count(raw, `"`) < 2 && strings.Count(raw, `'`) < 2 {
			if fields := strings.Fields(raw); len(fields) > 0 {
				raw = fields[0]
			}
		}
		refs[Basename(raw)] = struct{}{}
	}

	for _, m := range htmlImageRe.FindAllStringSubmatch(markdown, -1) {
		refs[Basename(strings.TrimSpace(m[1]))] = struct{}{}
	}

	for _, m := range refDefRe.FindAllStringSubmatch(markdown, -1) {
		refs[Basename(strings.TrimSpace(m[1]))] = struct{}{}
	}

	for _, m := range s.assetPathRe.FindAllStringSubmatch(markdown, -1) {
		refs[Basename(m[1])] = struct{}{}
	}

	delete(refs, "")
	return refs
}

// Basename returns the final path segment of a reference, treating both
// "/" and "\" as separators regardless of platform.
func Basename(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
