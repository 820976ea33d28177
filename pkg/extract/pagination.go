package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageMarkerPattern matches the "Page X of Y" indicator rendered by the
// listing's pagination widget.
var pageMarkerPattern = regexp.MustCompile(`(?i)page\s+(\d+)\s+of\s+(\d+)`)

// DetectTotalPages inspects rendered page-1 content for the total page count.
// It tries the "Page X of Y" marker first, then the highest page number
// referenced by a "last page" navigation link, and reports 1 when neither is
// present. A missing indicator is not an error: unpaginated listings are a
// single page.
func DetectTotalPages(content string) int {
	if m := pageMarkerPattern.FindStringSubmatch(content); m != nil {
		if total, err := strconv.Atoi(m[2]); err == nil && total > 0 {
			return total
		}
	}

	if total := lastPageFromNav(content); total > 0 {
		return total
	}

	return 1
}

// lastPageFromNav walks anchor elements looking like a "last page" control
// and returns the highest page number their targets reference.
func lastPageFromNav(content string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return 0
	}

	highest := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(s.Text()))
		if aria, ok := s.Attr("aria-label"); ok {
			label += " " + strings.ToLower(aria)
		}
		if !strings.Contains(label, "last") {
			return
		}

		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if page := pageFromHref(href); page > highest {
			highest = page
		}
	})

	return highest
}

// pageFromHref extracts the page number from a pagination link target,
// accepting both p= and page= query keys.
func pageFromHref(href string) int {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return 0
	}

	q := u.Query()
	for _, key := range []string{"p", "page"} {
		if v := q.Get(key); v != "" {
			if page, err := strconv.Atoi(v); err == nil && page > 0 {
				return page
			}
		}
	}
	return 0
}
