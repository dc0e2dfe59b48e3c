package wallpaper

import (
	"iter"
	"math/rand/v2"
	"slices"
	"sync"
)

// Picker selects one link from a sequence with uniform probability.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a Picker drawing from src. A nil src uses a randomly seeded PCG.
func NewPicker(src rand.Source) *Picker {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Picker{rng: rand.New(src)}
}

// Pick materializes seq and returns one element of it.
func (p *Picker) Pick(seq iter.Seq[string]) (string, error) {
	var items []string
	if seq != nil {
		items = slices.Collect(seq)
	}
	return p.PickFrom(items)
}

// PickFrom returns one element of items.
func (p *Picker) PickFrom(items []string) (string, error) {
	if len(items) == 0 {
		return "", &Error{Kind: KindEmptyGallery}
	}
	p.mu.Lock()
	i := p.rng.IntN(len(items))
	p.mu.Unlock()
	return items[i], nil
}

// PickRandom is Pick with a randomly seeded source.
func PickRandom(seq iter.Seq[string]) (string, error) {
	return NewPicker(nil).Pick(seq)
}
