// Package namegen produces catalog-looking strings without any I/O.
//
// Generator draws free-form names (artists) and makes no uniqueness promise.
// TitleGenerator maps an integer index onto a fixed Cartesian product of
// vocabularies, so distinct indices below Capacity never collide.
package namegen

import (
	"math/rand"
	"strings"
)

var syllables = []string{
	"ka", "lo", "mi", "ra", "ven", "tor", "sa", "lin", "dra", "mor",
	"el", "an", "zu", "rei", "fen", "quil", "ba", "no", "shi", "tal",
	"cor", "vi", "dem", "ol", "ar", "yn", "bel", "gar", "thu", "sel",
	"mar", "io", "ke", "lu", "pra", "ste", "wen", "xo", "hal", "rin",
}

// Generator builds pseudo-random names. It is not safe for concurrent use;
// each seeding run owns its own.
type Generator struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate returns between minWords and maxWords capitalized words, each made
// of two syllables.
func (g *Generator) Generate(minWords, maxWords int) string {
	if minWords < 1 {
		minWords = 1
	}
	if maxWords < minWords {
		maxWords = minWords
	}
	n := minWords + g.rng.Intn(maxWords-minWords+1)

	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		word := syllables[g.rng.Intn(len(syllables))] + syllables[g.rng.Intn(len(syllables))]
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}

// TitleGenerator composes "{adjective} {noun} {context}" from an index.
type TitleGenerator struct {
	adjectives []string
	nouns      []string
	contexts   []string
}

func NewTitleGenerator(adjectives, nouns, contexts []string) *TitleGenerator {
	if len(adjectives) == 0 || len(nouns) == 0 || len(contexts) == 0 {
		panic("namegen: title vocabularies must not be empty")
	}
	return &TitleGenerator{adjectives: adjectives, nouns: nouns, contexts: contexts}
}

// Capacity is the number of distinct titles. Index Capacity() yields the
// same title as index 0, and so on.
func (t *TitleGenerator) Capacity() int64 {
	return int64(len(t.adjectives)) * int64(len(t.nouns)) * int64(len(t.contexts))
}

func (t *TitleGenerator) Title(index int64) string {
	i := uint64(index)
	a := uint64(len(t.adjectives))
	n := uint64(len(t.nouns))
	c := uint64(len(t.contexts))

	adj := (i / (n * c)) % a
	noun := (i / c) % n
	ctx := i % c
	return t.adjectives[adj] + " " + t.nouns[noun] + " " + t.contexts[ctx]
}
