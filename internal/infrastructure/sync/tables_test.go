package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsync "github.com/retailcore/backend/internal/domain/sync"
)

func TestDefaultRegistry(t *testing.T) {
	registry, err := DefaultRegistry(nil)
	require.NoError(t, err)

	spec, ok := registry.Lookup("sales")
	require.True(t, ok)
	assert.Equal(t, domainsync.PolicyShopToOffice, spec.Policy)

	spec, ok = registry.Lookup("persons")
	require.True(t, ok)
	assert.Equal(t, domainsync.PolicyBidirectional, spec.Policy)
}

func TestDefaultRegistry_PolicyOverrides(t *testing.T) {
	registry, err := DefaultRegistry(map[string]string{
		"sellables": "bidirectional",
		"sales":     "BIDIRECTIONAL",
	})
	require.NoError(t, err)

	spec, ok := registry.Lookup("sellables")
	require.True(t, ok)
	assert.Equal(t, domainsync.PolicyBidirectional, spec.Policy)

	spec, ok = registry.Lookup("sales")
	require.True(t, ok)
	assert.Equal(t, domainsync.PolicyBidirectional, spec.Policy)

	// untouched tables keep their default
	spec, ok = registry.Lookup("fiscal_book_entries")
	require.True(t, ok)
	assert.Equal(t, domainsync.PolicyShopToOffice, spec.Policy)
}

func TestDefaultRegistry_RejectsBadOverrides(t *testing.T) {
	_, err := DefaultRegistry(map[string]string{"sales": "SIDEWAYS"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown policy")

	_, err = DefaultRegistry(map[string]string{"no_such_table": "BIDIRECTIONAL"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table")
}
