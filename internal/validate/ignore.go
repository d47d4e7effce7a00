package validate

import (
	"path"
	"strings"
)

// matchPattern reports whether link matches the ignore glob pattern.
//
// Besides path.Match syntax, two shorthands are supported:
//   - "https://example.com/*" matches everything below that prefix, at
//     any depth
//   - "*.pdf" matches any link ending in ".pdf"
func matchPattern(pattern, link string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		if !strings.ContainsAny(prefix, "*?[") && (strings.HasPrefix(link, prefix+"/") || link == prefix) {
			return true
		}
	}

	if ext, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(ext, ".") && !strings.ContainsAny(ext, "*?[") {
		if strings.HasSuffix(link, ext) {
			return true
		}
	}

	matched, err := path.Match(pattern, link)
	return err == nil && matched
}
