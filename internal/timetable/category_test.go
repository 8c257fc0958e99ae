package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryOrdinalsAreStable(t *testing.T) {
	// The questionnaire encodes categories by these exact numbers.
	assert.Equal(t, 0, int(CategoryCelluliteKiller))
	assert.Equal(t, 1, int(CategoryZumba))
	assert.Equal(t, 2, int(CategoryZumbaAdvanced))
	assert.Equal(t, 3, int(CategoryFitness))
	assert.Equal(t, 4, int(CategoryCrossFit))
	assert.Equal(t, 5, int(CategoryBrazilianButt))
	assert.Equal(t, 6, int(CategoryPilates))
	assert.Equal(t, 7, int(CategoryCityPump))
	assert.Equal(t, 8, int(CategoryStretching))
	assert.Equal(t, 9, int(CategoryYoga))
}

func TestCategoryFromOrdinal(t *testing.T) {
	c, err := CategoryFromOrdinal(4)
	require.NoError(t, err)
	assert.Equal(t, CategoryCrossFit, c)
	assert.Equal(t, "CROSSFIT", c.String())

	_, err = CategoryFromOrdinal(10)
	require.ErrorIs(t, err, ErrUnknownCategory)

	_, err = CategoryFromOrdinal(-1)
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCategoriesCoverOrdinalRange(t *testing.T) {
	all := Categories()
	require.Len(t, all, CategoryCount)
	for i, c := range all {
		assert.Equal(t, i, int(c))
		assert.True(t, c.Valid())
	}
}
