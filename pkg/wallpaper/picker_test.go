package wallpaper

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickRandomSingleElement(t *testing.T) {
	for i := 0; i < 20; i++ {
		got, err := PickRandom(slices.Values([]string{"https://i.imgur.com/1.jpg"}))
		require.NoError(t, err)
		assert.Equal(t, "https://i.imgur.com/1.jpg", got)
	}
}

func TestPickRandomEmpty(t *testing.T) {
	_, err := PickRandom(slices.Values([]string{}))
	assert.ErrorIs(t, err, ErrEmptyGallery)

	_, err = PickRandom(nil)
	assert.ErrorIs(t, err, ErrEmptyGallery)
}

func TestPickerIsDeterministicWithSeed(t *testing.T) {
	links := []string{"a", "b", "c", "d", "e"}

	first := NewPicker(rand.NewPCG(1, 2))
	second := NewPicker(rand.NewPCG(1, 2))
	for i := 0; i < 10; i++ {
		a, err := first.Pick(slices.Values(links))
		require.NoError(t, err)
		b, err := second.Pick(slices.Values(links))
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Contains(t, links, a)
	}
}

func TestPickerCoversAllElements(t *testing.T) {
	links := []string{"a", "b", "c"}
	p := NewPicker(rand.NewPCG(7, 7))
	seen := map[string]int{}
	for i := 0; i < 3000; i++ {
		got, err := p.PickFrom(links)
		require.NoError(t, err)
		seen[got]++
	}
	for _, l := range links {
		assert.Greater(t, seen[l], 800, "link %s picked %d times", l, seen[l])
	}
}
