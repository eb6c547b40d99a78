package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScalerFitTransform(t *testing.T) {
	matrix := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
	}

	s := &StandardScaler{}
	scaled, err := s.FitTransform(matrix)
	require.NoError(t, err)
	require.True(t, s.Fitted())

	// Columns are centered.
	for j := 0; j < 2; j++ {
		var sum float64
		for _, row := range scaled {
			sum += row[j]
		}
		assert.InDelta(t, 0, sum, 1e-9)
	}

	// Unit variance (population).
	for j := 0; j < 2; j++ {
		var ss float64
		for _, row := range scaled {
			ss += row[j] * row[j]
		}
		assert.InDelta(t, 1, ss/float64(len(scaled)), 1e-9)
	}
}

func TestStandardScalerConstantColumn(t *testing.T) {
	matrix := [][]float64{
		{5, 1},
		{5, 2},
		{5, 3},
	}

	s := &StandardScaler{}
	scaled, err := s.FitTransform(matrix)
	require.NoError(t, err)

	// Zero-variance column scales by 1, so it passes through centered.
	for _, row := range scaled {
		assert.Zero(t, row[0])
	}
}

func TestStandardScalerErrors(t *testing.T) {
	s := &StandardScaler{}

	t.Run("fit on empty matrix", func(t *testing.T) {
		assert.Error(t, s.Fit(nil))
	})

	t.Run("transform before fit", func(t *testing.T) {
		_, err := s.Transform([][]float64{{1}})
		assert.Error(t, err)
	})

	t.Run("width mismatch", func(t *testing.T) {
		require.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))
		_, err := s.Transform([][]float64{{1, 2, 3}})
		assert.Error(t, err)
	})
}
