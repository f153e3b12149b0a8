package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Recipient")
	require.NoError(t, err)
	assert.Equal(t, RoleRecipient, r)

	for _, in := range []string{"superuser", "admin", "recipient", " Admin ", ""} {
		_, err = ParseRole(in)
		assert.Error(t, err, in)
	}

	assert.True(t, RoleDonor.Valid())
	assert.False(t, Role("").Valid())
}

func TestParseFoodCategory(t *testing.T) {
	for in, want := range map[string]FoodCategory{
		"home-cooked": CategoryHomeCooked,
		"Home Cooked": CategoryHomeCooked,
		"PACKAGED":    CategoryPackaged,
	} {
		got, err := ParseFoodCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFoodCategory("frozen")
	assert.Error(t, err)
}

func TestClaimTransitions(t *testing.T) {
	cases := []struct {
		from, to ClaimStatus
		ok       bool
	}{
		{ClaimPending, ClaimApproved, true},
		{ClaimPending, ClaimRejected, true},
		{ClaimApproved, ClaimCollected, true},
		{ClaimPending, ClaimCollected, false},
		{ClaimPending, ClaimPending, false},
		{ClaimApproved, ClaimPending, false},
		{ClaimApproved, ClaimRejected, false},
		{ClaimRejected, ClaimApproved, false},
		{ClaimCollected, ClaimApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.True(t, ClaimCollected.Terminal())
	assert.True(t, ClaimRejected.Terminal())
	assert.False(t, ClaimPending.Terminal())
}

func TestParseClaimStatus(t *testing.T) {
	s, err := ParseClaimStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, ClaimApproved, s)

	_, err = ParseClaimStatus("bogus")
	assert.Error(t, err)
	_, err = ParseClaimStatus("Approved")
	assert.Error(t, err)
}

func TestNewPoint(t *testing.T) {
	p := NewPoint(-73.935242, 40.730610)
	assert.Equal(t, "Point", p.Type)
	assert.Equal(t, -73.935242, p.Longitude())
	assert.Equal(t, 40.730610, p.Latitude())
}
