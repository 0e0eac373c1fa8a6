package catalog

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLowercasesAndKeepsOrder(t *testing.T) {
	c := New([]Entry{
		{Type: "Tribal", Price: "$150"},
		{Type: "Arrow Path", Price: "$70"},
		{Type: "tribal", Price: "$160"},
	})

	assert.Equal(t, []string{"tribal", "arrow path"}, c.Keys())
	price, ok := c.Price("TRIBAL")
	require.True(t, ok)
	assert.Equal(t, "$160", price)

	_, ok = c.Price("celtic")
	assert.False(t, ok)
}

func TestDefaultAndSeedTables(t *testing.T) {
	assert.Equal(t, 14, Default().Len())
	seed := SeedEntries()
	require.Len(t, seed, 19)
	assert.Equal(t, "tribal", seed[0].Type)
	assert.Equal(t, Entry{Type: "trash polka", Price: "$310"}, seed[18])
}

func TestInferType(t *testing.T) {
	c := Default()

	assert.Equal(t, "geometric", c.InferType("I want a small geometric design"))
	assert.Equal(t, "custom", c.InferType("something nobody has drawn before"))
	// "traditional" comes before "neo-traditional" in catalog order.
	assert.Equal(t, "traditional", c.InferType("Neo-Traditional rose"))
}

func TestSampleClampsAndIsDistinct(t *testing.T) {
	entries := SeedEntries()[:18]
	c := New(entries)

	got := c.Sample(100)
	require.Len(t, got, 18)
	seen := map[string]bool{}
	for _, k := range got {
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
		_, ok := c.Price(k)
		assert.True(t, ok)
	}

	assert.Len(t, c.Sample(5), 5)
	assert.Empty(t, c.Sample(0))
	assert.Empty(t, c.Sample(-3))
}

func TestSampleWithIsReproducible(t *testing.T) {
	c := Default()
	a := c.SampleWith(5, rand.New(rand.NewPCG(1, 2)))
	b := c.SampleWith(5, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a, b)
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	c := New([]Entry{{Type: "watercolor", Price: "$250"}, {Type: "arrow path", Price: "$70"}})
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"watercolor":"$250","arrow path":"$70"}`, string(data))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Neo-Traditional", DisplayName("neo-traditional"))
	assert.Equal(t, "Arrow Path", DisplayName("arrow path"))
	assert.Equal(t, "Tribal", DisplayName("TRIBAL"))
}
