package client

import (
	"context"
	"strings"
	"sync"
)

// EssayCache keeps a local copy of the essay list and answers the
// filter and tag queries site frontends run on every keystroke,
// without a round trip per query. Refresh replaces the whole snapshot.
type EssayCache struct {
	client *Client

	mu     sync.RWMutex
	essays []Essay
}

// NewEssayCache creates an empty cache backed by the given client.
func NewEssayCache(client *Client) *EssayCache {
	return &EssayCache{client: client}
}

// Refresh fetches the published essay list and replaces the snapshot.
func (c *EssayCache) Refresh(ctx context.Context) error {
	essays, err := c.client.ListEssays(ctx, true)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.essays = essays
	c.mu.Unlock()

	return nil
}

// Published returns the cached essays.
func (c *EssayCache) Published() []Essay {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Essay, len(c.essays))
	copy(out, c.essays)
	return out
}

// Filter returns cached essays matching both criteria: a
// case-insensitive substring match of query against title and
// description, and an exact tag match. Empty query or tag matches
// everything for that criterion.
func (c *EssayCache) Filter(query, tag string) []Essay {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]Essay, 0)
	for _, e := range c.essays {
		if query != "" &&
			!strings.Contains(strings.ToLower(e.Title), query) &&
			!strings.Contains(strings.ToLower(e.Description), query) {
			continue
		}
		if tag != "" && !hasTag(e.Tags, tag) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Tags returns every distinct tag across cached essays, in
// first-appearance order.
func (c *EssayCache) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, e := range c.essays {
		for _, tag := range e.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
