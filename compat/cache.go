package compat

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IdentityCache assigns stable synthetic identifiers to connections that
// were recorded before connections carried an id. Two connections observed
// with the same role, start timestamp and address receive the same
// identifier for the lifetime of the cache. The cache lives and dies with
// one Migrator, so identifiers are stable within a migration session and
// fresh for the next one.
//
// Client and server connections are kept in separate scopes: a client and a
// server connection never share an identifier, even when their keys are
// equal.
type IdentityCache struct {
	mu  sync.Mutex
	ids map[string]string
}

func NewIdentityCache() *IdentityCache {
	return &IdentityCache{
		ids: make(map[string]string),
	}
}

// Identify returns the identifier of the connection with the given role,
// start timestamp and address tuple, generating and remembering a fresh one
// the first time a key is observed.
func (c *IdentityCache) Identify(role string, timestamp interface{}, address []interface{}) string {
	key := connectionKey(role, timestamp, address)

	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.ids[key]
	if !ok {
		id = uuid.New().String()
		c.ids[key] = id
	}
	return id
}

func connectionKey(role string, timestamp interface{}, address []interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\x1f%v", role, timestamp)
	for _, part := range address {
		fmt.Fprintf(&b, "\x1f%v", part)
	}
	return b.String()
}
