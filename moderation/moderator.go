// Package moderation censors blacklisted words in relayed chat text.
// Matching is resilient to leet speak, punctuation noise and casing;
// replacement preserves the original spacing.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// mapping links a normalized rune sequence back to original rune positions,
// so a match on the normalized text can be masked in the original.
type mapping struct {
	normalized []rune
	origIdx    []int
}

// NewModerator builds the Aho-Corasick automaton over the normalized
// dictionary. The dictionary is normalized the same way as incoming text,
// so "b4dger" and "b.a.d.g.e.r" both hit a "badger" entry.
func NewModerator(dictionary []string, replacement rune) (*Moderator, error) {
	patterns := make([][]rune, len(dictionary))
	for i, word := range dictionary {
		patterns[i] = normalize(word).normalized
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: machine, replacement: replacement}, nil
}

// Censor replaces every dictionary hit with the replacement rune. Text
// without hits is returned unchanged, same backing string.
func (m *Moderator) Censor(original string) string {
	mapped := normalize(original)
	if len(mapped.normalized) == 0 {
		return original
	}

	spans := m.matcher.MultiPatternSearch(mapped.normalized, false)
	if len(spans) == 0 {
		return original
	}

	runes := []rune(original)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(mapped.origIdx) {
			continue
		}

		// Mask the whole original range covered by the match, noise included.
		for i := mapped.origIdx[start]; i <= mapped.origIdx[end-1]; i++ {
			runes[i] = m.replacement
		}
	}
	return string(runes)
}

// normalize lowercases, undoes common leet substitutions and strips noise,
// keeping a position map back into the original runes.
func normalize(input string) mapping {
	origRunes := []rune(input)
	out := mapping{
		normalized: make([]rune, 0, len(origRunes)),
		origIdx:    make([]int, 0, len(origRunes)),
	}

	for i, r := range origRunes {
		clean := unleet(r)
		if isNoise(clean) {
			continue
		}
		out.normalized = append(out.normalized, unicode.ToLower(clean))
		out.origIdx = append(out.origIdx, i)
	}
	return out
}

// unleet maps common leet speak characters back to their standard letters.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies characters ignored during pattern matching.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
