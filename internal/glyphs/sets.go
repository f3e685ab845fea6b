// Package glyphs holds the character sets particles draw from and the
// updater that cycles a particle's glyph over time.
package glyphs

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"unicode"
)

var ErrUnknownSet = errors.New("glyphs: unknown character set")

// DefaultSet is used when a particle names no set or an unknown one.
const DefaultSet = "katakana"

// All is the union of every other set.
const All = "all"

var sources = map[string]string{
	"katakana": "ｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜｦﾝ",
	"hiragana": "あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろわをん",
	"latin":    "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"digits":   "0123456789",
	"binary":   "01",
	"aramaic":  "ܐ ܒ ܓ ܕ ܗ ܘ ܙ ܚ ܛ ܝ ܟ ܠ ܡ ܢ ܣ ܥ ܦ ܨ ܩ ܪ ܫ ܬ",
	"sanskrit": "अ आ इ ई उ ऊ ऋ ॠ ऌ ॡ ए ऐ ओ औ अं अः क ख ग घ ङ च छ ज झ ञ ट ठ ड ढ ण त थ द ध न प फ ब भ म य र ल व श ष स ह क्ष त्र ज्ञ",
	"dna":      "ATCG",
}

var sets = buildSets()

func buildSets() map[string][]rune {
	out := make(map[string][]rune, len(sources)+1)
	var all []rune
	for _, name := range sortedKeys(sources) {
		rs := []rune(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, sources[name]))
		out[name] = rs
		all = append(all, rs...)
	}
	out[All] = all
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Names returns every set name in sorted order.
func Names() []string {
	names := make([]string, 0, len(sets))
	for k := range sets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Set returns the runes of the named set.
func Set(name string) ([]rune, error) {
	rs, ok := sets[name]
	if !ok {
		return nil, ErrUnknownSet
	}
	return rs, nil
}

// Valid reports whether name is a known set. The empty name is valid and
// means DefaultSet.
func Valid(name string) bool {
	if name == "" {
		return true
	}
	_, ok := sets[name]
	return ok
}

// Random returns a random glyph from the named set, falling back to
// DefaultSet when the name is unknown.
func Random(name string, rng *rand.Rand) rune {
	rs, ok := sets[name]
	if !ok {
		rs = sets[DefaultSet]
	}
	return rs[rng.Intn(len(rs))]
}
