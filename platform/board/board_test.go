package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DedS3t/monopoly-engine/app/models"
)

func TestBoardHasFortyPositions(t *testing.T) {
	cloned := CloneProperties()
	require.Len(t, cloned, BoardSize)
	for i, p := range cloned {
		assert.Equal(t, i, p.Id)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Type)
	}
}

func TestTileGroups(t *testing.T) {
	cloned := CloneProperties()

	for _, pos := range RailroadPositions {
		p, err := GetByPos(pos, cloned)
		require.NoError(t, err)
		assert.Equal(t, models.PropertyTypeRailroad, p.Type)
		assert.Equal(t, 200, p.Price)
	}
	for _, pos := range UtilityPositions {
		p, err := GetByPos(pos, cloned)
		require.NoError(t, err)
		assert.Equal(t, models.PropertyTypeUtility, p.Type)
	}
	for _, pos := range []int{PosGo, PosJail, PosFreeParking, PosGoToJail, PosIncomeTax, PosLuxuryTax} {
		p, err := GetByPos(pos, cloned)
		require.NoError(t, err)
		assert.Equal(t, models.PropertyTypeSpecial, p.Type)
	}

	assert.True(t, IsChance(7))
	assert.True(t, IsCommunity(17))
	assert.False(t, IsChance(17))
	assert.False(t, IsCommunity(7))
}

func TestDecksSplitSixteenEach(t *testing.T) {
	chance := ChanceCardIds()
	community := CommunityCardIds()
	require.Len(t, chance, 16)
	require.Len(t, community, 16)

	seen := map[int]bool{}
	for _, id := range append(append([]int{}, chance...), community...) {
		assert.False(t, seen[id], "card id %d appears twice", id)
		seen[id] = true

		card, err := GetCard(id)
		require.NoError(t, err)
		assert.Equal(t, id, card.Id)
		assert.NotEmpty(t, card.Text)
		assert.NotEmpty(t, card.Action)
	}
}

func TestGetCardUnknownId(t *testing.T) {
	_, err := GetCard(999)
	assert.Error(t, err)
}

func TestGetByPosUnknown(t *testing.T) {
	_, err := GetByPos(99, CloneProperties())
	assert.Error(t, err)
}

func TestClonePropertiesDoesNotShareState(t *testing.T) {
	a := CloneProperties()
	b := CloneProperties()

	a[1].OwnerId = "someone"
	a[1].Houses = 3
	a[1].Rent[0] = 9999

	assert.Empty(t, b[1].OwnerId)
	assert.Zero(t, b[1].Houses)
	assert.Equal(t, 2, b[1].Rent[0])
}
