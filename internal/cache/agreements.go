package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/transfermatch/internal/model"
)

// AgreementCache holds parsed agreements so that a batch of students
// sharing one agreement parses it once. Agreements are immutable after
// parsing and may be shared between goroutines.
type AgreementCache struct {
	cache *gocache.Cache
}

// NewAgreementCache creates a parsed-agreement cache
func NewAgreementCache(ttl time.Duration) *AgreementCache {
	return &AgreementCache{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the parsed agreement for a source
func (c *AgreementCache) Get(source string) (model.Agreement, bool) {
	if val, found := c.cache.Get(CacheKey(source)); found {
		if a, ok := val.(model.Agreement); ok {
			return a, true
		}
	}
	return model.Agreement{}, false
}

// Add stores a parsed agreement under its source
func (c *AgreementCache) Add(source string, a model.Agreement) {
	c.cache.SetDefault(CacheKey(source), a)
}
