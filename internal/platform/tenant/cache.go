package tenant

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MetadataCache caches namespace-derived metadata per tenant. Every key is
// prefixed with the namespace: sharing one flat cache across tenants would
// serve one tenant's schema metadata to another, which is a correctness bug,
// not just staleness.
type MetadataCache struct {
	c *gocache.Cache
}

// NewMetadataCache creates a cache with the given entry TTL. A TTL of zero
// keeps entries until eviction.
func NewMetadataCache(ttl time.Duration) *MetadataCache {
	return &MetadataCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MetadataCache) key(ns Namespace, name string) string {
	return ns.Schema() + ":" + name
}

// Get returns the cached value for a namespace-scoped key.
func (m *MetadataCache) Get(ns Namespace, name string) (interface{}, bool) {
	return m.c.Get(m.key(ns, name))
}

// Set stores a value under a namespace-scoped key with the default TTL.
func (m *MetadataCache) Set(ns Namespace, name string, value interface{}) {
	m.c.SetDefault(m.key(ns, name), value)
}

const provisionedKey = "provisioned"

// MarkProvisioned records that the namespace's physical structures exist, so
// subsequent commands skip the provisioning round trip. Provisioning itself
// stays idempotent; the cache is only a fast path.
func (m *MetadataCache) MarkProvisioned(ns Namespace) {
	// No TTL: a schema does not stop existing.
	m.c.Set(m.key(ns, provisionedKey), true, gocache.NoExpiration)
}

// IsProvisioned reports whether the namespace was provisioned by this
// process instance.
func (m *MetadataCache) IsProvisioned(ns Namespace) bool {
	v, ok := m.Get(ns, provisionedKey)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
