// This file handles infrastructure-level loading of the embedded
// moderation dictionaries.
package runtime

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed censored/*
var censoredFS embed.FS

// Dictionary carries the loaded censored words plus metadata for logging.
type Dictionary struct {
	Words     []string
	Languages []string
}

// LoadDictionary parses every .txt file under the embedded censored
// directory. Each file is one language; one word per line, '#' starts a
// comment. Words are deduplicated across languages.
func LoadDictionary() (Dictionary, error) {
	entries, err := fs.ReadDir(censoredFS, "censored")
	if err != nil {
		return Dictionary{}, fmt.Errorf("reading censored directory: %w", err)
	}

	seen := make(map[string]struct{})
	var dict Dictionary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		data, err := censoredFS.ReadFile(path.Join("censored", entry.Name()))
		if err != nil {
			return Dictionary{}, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		dict.Languages = append(dict.Languages, strings.TrimSuffix(entry.Name(), ".txt"))

		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" || strings.HasPrefix(word, "#") {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			dict.Words = append(dict.Words, word)
		}
	}
	return dict, nil
}
