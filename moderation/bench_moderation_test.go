package moderation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Moderation_Benchmark(t *testing.T) {
	req := require.New(t)

	wordCount := 100_000

	// --- Phase 1: SEEDING ---
	startSeed := time.Now()
	words := make([]string, 0, wordCount)
	for i := 0; i < wordCount; i++ {
		words = append(words, fmt.Sprintf("word_%d", i))
	}
	fmt.Printf("✅ Seeding %d words: %v\n", wordCount, time.Since(startSeed))

	// --- Phase 2: BUILDING AHO-CORASICK ---
	startBuild := time.Now()
	moderator, err := NewModerator(words, '*')
	req.NoError(err)
	fmt.Printf("✅ Building AC Automaton: %v\n", time.Since(startBuild))

	// --- Phase 3: CENSORING ---
	line := "nothing to see here, just word_99999 passing through"
	startCensor := time.Now()
	censored := moderator.Censor(line)
	fmt.Printf("✅ Censoring one line: %v\n", time.Since(startCensor))

	req.Contains(censored, strings.Repeat("*", len("word_99999")))
	fmt.Printf("\n🚀 Total startup time for moderation: %v\n", time.Since(startSeed))
}

func BenchmarkCensor(b *testing.B) {
	moderator, err := NewModerator([]string{"badger", "weasel", "stoat"}, '*')
	if err != nil {
		b.Fatal(err)
	}
	line := "a perfectly ordinary sentence with one badger in the middle of it"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		moderator.Censor(line)
	}
}
