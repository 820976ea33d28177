// Package testutil provides testing utilities for the harvest pipeline.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/txhound/txhound/pkg/extract"
)

// PageResponse defines the behavior for one mock listing page.
type PageResponse struct {
	// StatusCode defaults to 200.
	StatusCode int

	// Body overrides the generated listing when set.
	Body string

	// Hashes are rendered as /tx/ links in the generated listing.
	Hashes []string

	// Delay is applied before responding.
	Delay time.Duration

	// FailFirst serves a 502 for the first N requests to this page.
	FailFirst int
}

// MockExplorer is a configurable mock block explorer for testing. Listing
// pages live under /<category>?a=<address>&p=<page> and carry a
// "Page X of Y" pagination marker.
type MockExplorer struct {
	server *httptest.Server
	mu     sync.RWMutex

	totals   map[string]int
	pages    map[string]map[int]PageResponse
	requests map[string]map[int]int

	// Tracking
	RequestCount      int
	LastAddress       string
	LastRequestHeader http.Header
}

// NewMockExplorer creates a new mock explorer server.
func NewMockExplorer() *MockExplorer {
	mock := &MockExplorer{
		totals:   make(map[string]int),
		pages:    make(map[string]map[int]PageResponse),
		requests: make(map[string]map[int]int),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockExplorer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockExplorer) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockExplorer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]map[int]int)
	m.RequestCount = 0
	m.LastAddress = ""
	m.LastRequestHeader = nil
}

// SetTotalPages sets the total advertised by the category's pagination
// marker.
func (m *MockExplorer) SetTotalPages(category string, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals[category] = total
}

// SetPage configures the response for one listing page.
func (m *MockExplorer) SetPage(category string, page int, resp PageResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pages[category] == nil {
		m.pages[category] = make(map[int]PageResponse)
	}
	m.pages[category][page] = resp
}

// SeedCategory fills a category with totalPages listing pages carrying
// hashesPerPage deterministic hashes each, numbered from seed upward.
func (m *MockExplorer) SeedCategory(category string, totalPages, hashesPerPage, seed int) {
	m.SetTotalPages(category, totalPages)
	for page := 1; page <= totalPages; page++ {
		hashes := make([]string, 0, hashesPerPage)
		for i := 0; i < hashesPerPage; i++ {
			hashes = append(hashes, TxHash(seed+(page-1)*hashesPerPage+i))
		}
		m.SetPage(category, page, PageResponse{Hashes: hashes})
	}
}

// PageRequests returns the number of requests served for one listing page.
func (m *MockExplorer) PageRequests(category string, page int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[category][page]
}

func (m *MockExplorer) handle(w http.ResponseWriter, r *http.Request) {
	category := strings.Trim(r.URL.Path, "/")
	page, _ := strconv.Atoi(r.URL.Query().Get("p"))
	if page <= 0 {
		page = 1
	}

	m.mu.Lock()
	m.RequestCount++
	m.LastAddress = r.URL.Query().Get("a")
	m.LastRequestHeader = r.Header.Clone()
	if m.requests[category] == nil {
		m.requests[category] = make(map[int]int)
	}
	m.requests[category][page]++
	count := m.requests[category][page]
	resp, scripted := m.pages[category][page]
	total := m.totals[category]
	m.mu.Unlock()

	if !scripted {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, ThinPage())
		return
	}

	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	if count <= resp.FailFirst {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "bad gateway")
		return
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if resp.Body != "" {
		fmt.Fprint(w, resp.Body)
		return
	}
	fmt.Fprint(w, ListingPage(page, total, resp.Hashes...))
}

// TxHash returns a deterministic 64-hex-char transaction hash seeded by n.
func TxHash(n int) string {
	return fmt.Sprintf("0x%064x", n)
}

// ListingPage builds a listing page with a pagination marker and one /tx/
// link per hash, padded past the classifier's minimum content size.
func ListingPage(page, total int, hashes ...string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>Transactions</title></head><body>")
	fmt.Fprintf(&b, `<div class="pager">Page %d of %d</div><table>`, page, total)
	for _, h := range hashes {
		fmt.Fprintf(&b, `<tr><td><a href="/tx/%s">%s</a></td></tr>`, h, h)
	}
	b.WriteString("</table>")
	if pad := extract.MinContentBytes - b.Len(); pad > 0 {
		fmt.Fprintf(&b, `<div class="filler">%s</div>`, strings.Repeat("-", pad+64))
	}
	b.WriteString("</body></html>")
	return b.String()
}

// BlockedPage builds a page carrying a block signature marker, large enough
// to pass the minimum size check.
func BlockedPage(marker string) string {
	return "<html><body><h1>" + marker + "</h1>" +
		strings.Repeat("-", extract.MinContentBytes) + "</body></html>"
}

// ThinPage builds a page below the minimum content size.
func ThinPage() string {
	return "<html><body>nothing here</body></html>"
}
