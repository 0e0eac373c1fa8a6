// Package catalog holds the studio's tattoo styles and their display prices.
package catalog

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"strings"
	"unicode"
)

// CustomType is reported when a description matches no catalog style.
const CustomType = "custom"

// Entry is one style and its display price. Prices are opaque strings such
// as "$150"; no arithmetic is ever done on them.
type Entry struct {
	Type  string `json:"type"`
	Price string `json:"price"`
}

// Catalog is an ordered, read-only set of styles keyed case-insensitively.
// Order is the source order and is significant: InferType picks the first
// matching style.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New builds a catalog from entries, lower-casing keys. A repeated key keeps
// its first position and takes the last price, the way a dict assignment does.
func New(entries []Entry) *Catalog {
	c := &Catalog{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		key := strings.ToLower(e.Type)
		if i, ok := c.index[key]; ok {
			c.entries[i].Price = e.Price
			continue
		}
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, Entry{Type: key, Price: e.Price})
	}
	return c
}

// Default returns the built-in table used when no catalog file exists.
func Default() *Catalog {
	return New(defaultEntries)
}

var defaultEntries = []Entry{
	{"tribal", "$150"},
	{"traditional", "$200"},
	{"japanese", "$300"},
	{"watercolor", "$250"},
	{"geometric", "$180"},
	{"portrait", "$400"},
	{"blackwork", "$220"},
	{"arrow path", "$70"},
	{"minimalist", "$100"},
	{"neo-traditional", "$250"},
	{"realism", "$350"},
	{"dotwork", "$200"},
	{"mandala", "$230"},
	{"biomechanical", "$380"},
}

// seedEntries is what gets written to disk when the catalog file is missing.
var seedEntries = append(append([]Entry(nil), defaultEntries...),
	Entry{"old school", "$190"},
	Entry{"new school", "$240"},
	Entry{"celtic", "$210"},
	Entry{"fine line", "$170"},
	Entry{"trash polka", "$310"},
)

// Len reports the number of styles.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Keys returns style names in catalog order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Type
	}
	return keys
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// Price looks a style up case-insensitively.
func (c *Catalog) Price(style string) (string, bool) {
	if c == nil {
		return "", false
	}
	i, ok := c.index[strings.ToLower(style)]
	if !ok {
		return "", false
	}
	return c.entries[i].Price, true
}

// InferType returns the first style (in catalog order) that appears in the
// description, ignoring case, or CustomType when none does.
func (c *Catalog) InferType(description string) string {
	lowered := strings.ToLower(description)
	for _, key := range c.Keys() {
		if strings.Contains(lowered, key) {
			return key
		}
	}
	return CustomType
}

// Sample returns up to n distinct styles in random order. It is safe for
// concurrent use.
func (c *Catalog) Sample(n int) []string {
	return c.sample(n, rand.Perm)
}

// SampleWith is Sample driven by a caller-owned generator, for reproducible
// output in tests. r must not be shared across goroutines.
func (c *Catalog) SampleWith(n int, r *rand.Rand) []string {
	if r == nil {
		return c.Sample(n)
	}
	return c.sample(n, r.Perm)
}

func (c *Catalog) sample(n int, perm func(int) []int) []string {
	total := c.Len()
	if n > total {
		n = total
	}
	if n <= 0 {
		return []string{}
	}
	out := make([]string, 0, n)
	for _, i := range perm(total)[:n] {
		out = append(out, c.entries[i].Type)
	}
	return out
}

// MarshalJSON renders the catalog as an object of style → price that keeps
// catalog order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Type)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Price)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DisplayName title-cases a style the way it is shown to customers:
// "neo-traditional" becomes "Neo-Traditional".
func DisplayName(style string) string {
	var b strings.Builder
	b.Grow(len(style))
	prevLetter := false
	for _, r := range style {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
