package compat

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIdentityCacheStableWithinSession(t *testing.T) {
	c := NewIdentityCache()
	addr := []interface{}{"10.0.0.1", 5000}

	first := c.Identify("client", 100.0, addr)
	second := c.Identify("client", 100.0, addr)
	require.Equal(t, first, second)

	_, err := uuid.Parse(first)
	require.NoError(t, err)
}

func TestIdentityCacheDistinguishesKeys(t *testing.T) {
	c := NewIdentityCache()

	base := c.Identify("client", 100.0, []interface{}{"10.0.0.1", 5000})

	cases := map[string]string{
		"different timestamp": c.Identify("client", 101.0, []interface{}{"10.0.0.1", 5000}),
		"different host":      c.Identify("client", 100.0, []interface{}{"10.0.0.2", 5000}),
		"different port":      c.Identify("client", 100.0, []interface{}{"10.0.0.1", 5001}),
		"different role":      c.Identify("server", 100.0, []interface{}{"10.0.0.1", 5000}),
	}
	seen := map[string]bool{base: true}
	for name, id := range cases {
		require.False(t, seen[id], "%s must map to a fresh identifier", name)
		seen[id] = true
	}
}

func TestIdentityCacheFreshAcrossSessions(t *testing.T) {
	addr := []interface{}{"10.0.0.1", 5000}
	first := NewIdentityCache().Identify("client", 100.0, addr)
	second := NewIdentityCache().Identify("client", 100.0, addr)
	require.NotEqual(t, first, second)
}

func TestIdentityCacheConcurrentUse(t *testing.T) {
	c := NewIdentityCache()
	addr := []interface{}{"10.0.0.1", 5000}

	ids := make([]string, 32)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = c.Identify("client", 100.0, addr)
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		require.Equal(t, ids[0], id)
	}
}
