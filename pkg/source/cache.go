package source

import (
	"sync"
	"time"
)

// cacheEntry is one dataset download and the moment it goes stale.
type cacheEntry struct {
	document  Document
	expiresAt time.Time
}

// DocumentCache keeps downloaded dataset documents by location so repeated
// renders do not refetch the CSVs. A stale document is dropped by the Get
// that finds it. Safe for concurrent use.
type DocumentCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	defaultTTL time.Duration
	now        func() time.Time
}

// NewDocumentCache returns an empty cache whose documents stay fresh for
// defaultTTL.
func NewDocumentCache(defaultTTL time.Duration) *DocumentCache {
	return &DocumentCache{
		entries:    make(map[string]cacheEntry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the document downloaded from location while it is fresh.
func (documentCache *DocumentCache) Get(location string) (Document, bool) {
	documentCache.mu.RLock()
	entry, exists := documentCache.entries[location]
	documentCache.mu.RUnlock()

	if !exists {
		return Document{}, false
	}

	if documentCache.now().After(entry.expiresAt) {
		documentCache.mu.Lock()
		// A concurrent Set may have refreshed it.
		if current, stillExists := documentCache.entries[location]; stillExists && documentCache.now().After(current.expiresAt) {
			delete(documentCache.entries, location)
		}
		documentCache.mu.Unlock()
		return Document{}, false
	}

	return entry.document, true
}

// Set records document as the fresh copy of location.
func (documentCache *DocumentCache) Set(location string, document Document) {
	documentCache.mu.Lock()
	documentCache.entries[location] = cacheEntry{
		document:  document,
		expiresAt: documentCache.now().Add(documentCache.defaultTTL),
	}
	documentCache.mu.Unlock()
}

// Invalidate forces the next fetch of location to download it again.
func (documentCache *DocumentCache) Invalidate(location string) {
	documentCache.mu.Lock()
	delete(documentCache.entries, location)
	documentCache.mu.Unlock()
}

// Clear drops every document.
func (documentCache *DocumentCache) Clear() {
	documentCache.mu.Lock()
	documentCache.entries = make(map[string]cacheEntry)
	documentCache.mu.Unlock()
}

// Len counts stored documents, stale ones not yet dropped included.
func (documentCache *DocumentCache) Len() int {
	documentCache.mu.RLock()
	count := len(documentCache.entries)
	documentCache.mu.RUnlock()
	return count
}
