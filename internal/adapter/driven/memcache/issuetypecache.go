// Package memcache provides an in-memory IssueTypeCache, used when no
// database path is configured and as the seedable cache in tests.
package memcache

import (
	"context"
	"sync"

	"github.com/ericfisherdev/qareport/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IssueTypeCache = (*IssueTypeCache)(nil)

// IssueTypeCache is a mutex-guarded map from issue key to resolved type.
type IssueTypeCache struct {
	mu    sync.Mutex
	types map[string]string
}

// NewIssueTypeCache creates an empty cache.
func NewIssueTypeCache() *IssueTypeCache {
	return &IssueTypeCache{types: make(map[string]string)}
}

// Get returns the cached type for the key and whether it was present.
func (c *IssueTypeCache) Get(_ context.Context, issueKey string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	issueType, ok := c.types[issueKey]
	return issueType, ok, nil
}

// Put records the resolved type for the key.
func (c *IssueTypeCache) Put(_ context.Context, issueKey, issueType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[issueKey] = issueType
	return nil
}

// Len returns the number of cached entries.
func (c *IssueTypeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.types)
}
