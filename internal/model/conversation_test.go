package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("a", "b"), PairKey("b", "a"))
	assert.Equal(t, "a:b", PairKey("b", "a"))
	assert.NotEqual(t, PairKey("a", "b"), PairKey("a", "c"))
}

func TestConversationInvolvesAndOther(t *testing.T) {
	c := Conversation{Participant1: "inquirer", Participant2: "owner"}

	assert.True(t, c.Involves("inquirer"))
	assert.True(t, c.Involves("owner"))
	assert.False(t, c.Involves("stranger"))

	assert.Equal(t, "owner", c.Other("inquirer"))
	assert.Equal(t, "inquirer", c.Other("owner"))
}

func TestListingTypeValid(t *testing.T) {
	assert.True(t, ListingYardSale.Valid())
	assert.True(t, ListingMarketItem.Valid())
	assert.False(t, ListingType("").Valid())
	assert.False(t, ListingType("garage_sale").Valid())
}
