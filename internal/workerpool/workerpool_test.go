package workerpool_test

import (
	"context"
	"testing"

	"github.com/Anthya1104/raid-forensic/internal/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_OrderPreserving(t *testing.T) {
	items := make([]int, 200)
	for i := range items {
		items[i] = i
	}

	results, err := workerpool.Map(context.Background(), 8, items, func(_ int, v int) int {
		return v * v
	})
	require.NoError(t, err)

	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestMap_Empty(t *testing.T) {
	results, err := workerpool.Map(context.Background(), 4, []int{}, func(_ int, v int) int { return v })
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestMap_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]int, 1000)
	_, err := workerpool.Map(ctx, 4, items, func(_ int, v int) int { return v })
	assert.Error(t, err)
}
