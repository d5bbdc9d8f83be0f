package runtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDictionary(t *testing.T) {
	req := require.New(t)

	dict, err := LoadDictionary()
	req.NoError(err)

	// One language per embedded file
	req.Contains(dict.Languages, "en")
	req.Contains(dict.Languages, "fr")

	// Words from both files survive the merge
	req.Contains(dict.Words, "damn")
	req.Contains(dict.Words, "cretin")

	// Comments and blanks never leak into the dictionary
	seen := make(map[string]struct{}, len(dict.Words))
	for _, word := range dict.Words {
		req.NotEmpty(word)
		req.False(strings.HasPrefix(word, "#"), "comment leaked: %q", word)
		_, dup := seen[word]
		req.False(dup, "duplicate word: %q", word)
		seen[word] = struct{}{}
	}
}
