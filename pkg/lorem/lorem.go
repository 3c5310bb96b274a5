// Package lorem generates placeholder Chinese prose, used to fill the
// biography fields of demo trees.
package lorem

import (
	"math/rand/v2"
	"strings"
)

var characters = []rune(
	"一丁七万丈三上下不与丐丑专且世丘丙业丛东丝丢两严丧个中丰串临" +
		"丸丹为主丽举乃久么义之乌乍乎乏乐乒乓乔乖乘乙九乞也习乡书买乱" +
		"乳乾了予争事二于亏云互五井亚些亡交亥亦产亩享京亭亮亲人亿什仁")

var punctuation = []rune("，。！？")

// Generator produces deterministic pseudo-random text from a seed.
// It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded for reproducible output.
func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Sentence returns 6 to 12 random characters closed by a random
// punctuation mark, or by a full stop when final is set.
func (g *Generator) Sentence(final bool) string {
	n := 6 + g.rng.IntN(7)
	var b strings.Builder
	for range n {
		b.WriteRune(characters[g.rng.IntN(len(characters))])
	}
	if final {
		b.WriteRune('。')
	} else {
		b.WriteRune(punctuation[g.rng.IntN(len(punctuation))])
	}
	return b.String()
}

// Text returns a paragraph of 9 to 21 sentences, the last of which
// always ends in a full stop.
func (g *Generator) Text() string {
	n := 8 + g.rng.IntN(13)
	var b strings.Builder
	for range n {
		b.WriteString(g.Sentence(false))
	}
	b.WriteString(g.Sentence(true))
	return b.String()
}
