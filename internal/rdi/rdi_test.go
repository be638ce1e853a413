package rdi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	mins, maxs, err := Lookup("male-19-30")
	require.NoError(t, err)
	require.NotEmpty(t, mins)
	require.NotEmpty(t, maxs)

	// The table's nutrient order is preserved, energy first.
	assert.Equal(t, "energy", mins[0].Nutrient)
	assert.Equal(t, 2400.0, mins[0].Value)

	// Energy has no tolerable upper limit, sodium does.
	for _, b := range maxs {
		assert.NotEqual(t, "energy", b.Nutrient)
	}
	found := false
	for _, b := range maxs {
		if b.Nutrient == "sodium" {
			found = true
			assert.Equal(t, 2300.0, b.Value)
		}
	}
	assert.True(t, found, "sodium should carry an upper limit")
}

func TestLookupUnknownGroup(t *testing.T) {
	_, _, err := Lookup("male-200-230")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestGroups(t *testing.T) {
	groups := Groups()
	require.NotEmpty(t, groups)
	assert.Contains(t, groups, "male-19-30")
	assert.Contains(t, groups, "child-4-8")
	assert.IsIncreasing(t, groups)

	for _, g := range groups {
		_, _, err := Lookup(g)
		assert.NoError(t, err)
	}
}
