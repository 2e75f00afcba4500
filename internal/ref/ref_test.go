package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	gen11 := Address{Book: "Genesis", Chapter: 1, Verse: 1}
	gen12 := Address{Book: "Genesis", Chapter: 1, Verse: 2}
	gen21 := Address{Book: "Genesis", Chapter: 2, Verse: 1}
	exo11 := Address{Book: "Exodus", Chapter: 1, Verse: 1}

	assert.Equal(t, 0, Compare(gen11, gen11))
	assert.Equal(t, -1, Compare(gen11, gen12))
	assert.Equal(t, 1, Compare(gen12, gen11))
	assert.Equal(t, -1, Compare(gen12, gen21))
	assert.Equal(t, -1, Compare(gen21, exo11))
	assert.Equal(t, 1, Compare(exo11, gen21))
}

func TestRangeContains(t *testing.T) {
	rng := Range{
		Start: Address{Book: "Genesis", Chapter: 1, Verse: 3},
		End:   Address{Book: "Genesis", Chapter: 1, Verse: 5},
	}
	assert.True(t, rng.Contains(Address{Book: "Genesis", Chapter: 1, Verse: 3}))
	assert.True(t, rng.Contains(Address{Book: "Genesis", Chapter: 1, Verse: 4}))
	assert.True(t, rng.Contains(Address{Book: "Genesis", Chapter: 1, Verse: 5}))
	assert.False(t, rng.Contains(Address{Book: "Genesis", Chapter: 1, Verse: 2}))
	assert.False(t, rng.Contains(Address{Book: "Genesis", Chapter: 1, Verse: 6}))
	assert.False(t, rng.Contains(Address{Book: "Exodus", Chapter: 1, Verse: 4}))
}

func TestRangeString(t *testing.T) {
	single := Single(Address{Book: "John", Chapter: 3, Verse: 16})
	assert.True(t, single.IsSingle())
	assert.Equal(t, "John 3:16", single.String())

	span := Range{
		Start: Address{Book: "John", Chapter: 3, Verse: 16},
		End:   Address{Book: "John", Chapter: 3, Verse: 18},
	}
	assert.Equal(t, "John 3:16-18", span.String())

	cross := Range{
		Start: Address{Book: "Genesis", Chapter: 50, Verse: 1},
		End:   Address{Book: "Exodus", Chapter: 1, Verse: 2},
	}
	assert.Equal(t, "Genesis 50:1-Exodus 1:2", cross.String())
}

func TestProviderText(t *testing.T) {
	single := Single(Address{Book: "1 Samuel", Chapter: 1, Verse: 1})
	assert.Equal(t, "1Samuel 1:1", single.ProviderText())

	span := Range{
		Start: Address{Book: "Genesis", Chapter: 1, Verse: 1},
		End:   Address{Book: "Genesis", Chapter: 1, Verse: 31},
	}
	assert.Equal(t, "Genesis 1:1-31", span.ProviderText())
}

func TestAddressValid(t *testing.T) {
	assert.True(t, Address{Book: "Genesis", Chapter: 1, Verse: 1}.Valid())
	assert.False(t, Address{Book: "Enoch", Chapter: 1, Verse: 1}.Valid())
	assert.False(t, Address{Book: "Genesis", Chapter: 0, Verse: 1}.Valid())
	assert.False(t, Address{}.Valid())
}
