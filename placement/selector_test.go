package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBest_Empty(t *testing.T) {
	_, err := SelectBest(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestSelectBest_SingleFitWins(t *testing.T) {
	placements := []Placement{
		{PolygonIndex: 0, AvailableWidth: 100, AvailableHeight: 50},
		{PolygonIndex: 1, AvailableWidth: 2, AvailableHeight: 1, FitsInside: true},
		{PolygonIndex: 2, AvailableWidth: 80, AvailableHeight: 40},
	}

	best, err := SelectBest(placements)
	require.NoError(t, err)
	assert.Equal(t, placements[1], best)
	assert.Equal(t, 0, placements[0].PolygonIndex, "input is not reordered")
}

func TestSelectBest_ByArea(t *testing.T) {
	placements := []Placement{
		{PolygonIndex: 0, AvailableWidth: 10, AvailableHeight: 5, FitsInside: true},
		{PolygonIndex: 1, AvailableWidth: 20, AvailableHeight: 5, FitsInside: true},
		{PolygonIndex: 2, AvailableWidth: 90, AvailableHeight: 50},
	}

	best, err := SelectBest(placements)
	require.NoError(t, err)
	assert.Equal(t, 1, best.PolygonIndex)

	placements[2].FitsInside = true
	best, err = SelectBest(placements)
	require.NoError(t, err)
	assert.Equal(t, 2, best.PolygonIndex)
}

func TestSelectBest_TiesKeepOrder(t *testing.T) {
	placements := []Placement{
		{PolygonIndex: 0, AvailableWidth: 1, AvailableHeight: 1},
		{PolygonIndex: 1, AvailableWidth: 10, AvailableHeight: 5},
		{PolygonIndex: 2, AvailableWidth: 5, AvailableHeight: 10},
	}

	best, err := SelectBest(placements)
	require.NoError(t, err)
	assert.Equal(t, 1, best.PolygonIndex)
}
