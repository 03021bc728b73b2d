package fiscal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

func TestNewBookEntry(t *testing.T) {
	e, err := NewBookEntry(BookICMS, uuid.New(), uuid.New(), "5.102", "NF-42",
		decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(18), testNow)
	require.NoError(t, err)
	assert.Nil(t, e.ReversalOf)

	_, err = NewBookEntry(BookType("IRPF"), uuid.New(), uuid.New(), "5.102", "NF-42",
		decimal.Zero, decimal.Zero, decimal.Zero, testNow)
	require.Error(t, err)
}

func TestBookEntry_Reverse(t *testing.T) {
	e, err := NewBookEntry(BookIPI, uuid.New(), uuid.New(), "5.102", "NF-7",
		decimal.NewFromInt(200), decimal.NewFromInt(180), decimal.NewFromInt(20), testNow)
	require.NoError(t, err)

	rev, err := e.Reverse(testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, rev.Value.Equal(decimal.NewFromInt(-200)))
	assert.True(t, rev.Base.Equal(decimal.NewFromInt(-180)))
	assert.True(t, rev.Tax.Equal(decimal.NewFromInt(-20)))
	require.NotNil(t, rev.ReversalOf)
	assert.Equal(t, e.ID, *rev.ReversalOf)
	assert.Equal(t, e.CFOPCode, rev.CFOPCode)
	// original is untouched
	assert.True(t, e.Value.Equal(decimal.NewFromInt(200)))

	// entry plus reversal net to zero
	assert.True(t, e.Value.Add(rev.Value).IsZero())

	_, err = rev.Reverse(testNow)
	require.Error(t, err)
}

func TestNewCFOP(t *testing.T) {
	c, err := NewCFOP("5.102", "sale of acquired goods", testNow)
	require.NoError(t, err)
	assert.Equal(t, "5.102", c.Code)

	for _, bad := range []string{"", "5102", "9.102", "5.10", "a.bcd"} {
		_, err := NewCFOP(bad, "x", testNow)
		assert.Error(t, err, "code %q", bad)
	}
}
