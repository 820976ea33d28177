// Package extract turns rendered explorer markup into transaction hashes.
// It also classifies fetched content before extraction is attempted and
// detects the total page count advertised by a paginated listing.
package extract

import (
	"regexp"
	"strings"
)

const (
	// MaxMatches caps the pattern scan for a single page. Scanning stops
	// early once the cap is reached and the page still counts as a success.
	MaxMatches = 10000

	// MinContentBytes is the minimum rendered size for content to be
	// considered a real listing page.
	MinContentBytes = 500
)

// hashPattern matches transaction hashes in link context, e.g. /tx/0x<64 hex>.
var hashPattern = regexp.MustCompile(`/tx/(0x[0-9a-fA-F]{64})`)

// Extract scans rendered page content for transaction hashes referenced in
// link context. Hashes are normalized to lowercase and deduplicated within
// the page; order of first occurrence is preserved.
func Extract(content string) []string {
	matches := hashPattern.FindAllStringSubmatch(content, MaxMatches)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	hashes := make([]string, 0, len(matches))
	for _, m := range matches {
		hash := strings.ToLower(m[1])
		if _, dup := seen[hash]; dup {
			continue
		}
		seen[hash] = struct{}{}
		hashes = append(hashes, hash)
	}

	return hashes
}
