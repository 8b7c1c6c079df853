// Package vocab loads and serves the sign-language vocabulary mappings.
//
// Three JSON files in the vocabulary directory back the three lookup tiers:
// words.json maps whole words to video URLs, numbers.json maps numeric tokens,
// and alphabet.json maps single characters used for fingerspelling. Keys are
// normalized to lowercase at load time and the resulting Store is immutable,
// so lookups need no locking.
package vocab

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Mapping file names expected inside the vocabulary directory.
const (
	WordsFile    = "words.json"
	NumbersFile  = "numbers.json"
	AlphabetFile = "alphabet.json"
)

// Store holds the three mapping tiers. Immutable after Load.
type Store struct {
	words    map[string]string
	numbers  map[string]string
	alphabet map[string]string

	wordList []string // sorted word keys, read-only after Load
	dir      string
	loadedAt time.Time
}

// Load reads the three mapping files from dir. A missing file is logged and
// treated as an empty mapping; a file that exists but fails to parse is a
// hard error and startup fails.
func Load(dir string, log zerolog.Logger) (*Store, error) {
	s := &Store{dir: dir, loadedAt: time.Now()}

	var err error
	if s.words, err = loadMapping(filepath.Join(dir, WordsFile), log); err != nil {
		return nil, fmt.Errorf("load %s: %w", WordsFile, err)
	}
	if s.numbers, err = loadMapping(filepath.Join(dir, NumbersFile), log); err != nil {
		return nil, fmt.Errorf("load %s: %w", NumbersFile, err)
	}
	if s.alphabet, err = loadMapping(filepath.Join(dir, AlphabetFile), log); err != nil {
		return nil, fmt.Errorf("load %s: %w", AlphabetFile, err)
	}

	s.wordList = make([]string, 0, len(s.words))
	for w := range s.words {
		s.wordList = append(s.wordList, w)
	}
	sort.Strings(s.wordList)

	log.Info().
		Int("words", len(s.words)).
		Int("numbers", len(s.numbers)).
		Int("alphabet", len(s.alphabet)).
		Str("dir", dir).
		Msg("vocabulary loaded")

	return s, nil
}

// loadMapping reads a single JSON mapping file. Keys are lowercased and
// trimmed; entries with empty keys or values are dropped, as are keys that
// collide after normalization (first one in wins).
func loadMapping(path string, log zerolog.Logger) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", filepath.Base(path)).Msg("vocabulary file not found, using empty mapping")
			return map[string]string{}, nil
		}
		return nil, err
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	m := make(map[string]string, len(raw))
	skipped := 0
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" || v == "" {
			skipped++
			continue
		}
		if _, ok := m[key]; ok {
			log.Warn().
				Str("key", key).
				Str("file", filepath.Base(path)).
				Msg("duplicate key after normalization, keeping first")
			skipped++
			continue
		}
		m[key] = v
	}

	log.Debug().
		Str("file", filepath.Base(path)).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Int("entries", len(m)).
		Int("skipped", skipped).
		Msg("vocabulary file loaded")

	return m, nil
}

// LookupWord returns the video URL for a word token. The token must already
// be normalized to lowercase; keys are lowercased at load.
func (s *Store) LookupWord(token string) (string, bool) {
	url, ok := s.words[token]
	return url, ok
}

// LookupNumber returns the video URL for a numeric token.
func (s *Store) LookupNumber(token string) (string, bool) {
	url, ok := s.numbers[token]
	return url, ok
}

// LookupChar returns the video URL for a single character.
func (s *Store) LookupChar(r rune) (string, bool) {
	url, ok := s.alphabet[string(r)]
	return url, ok
}

// Words returns the sorted list of word keys. Callers must not modify it.
func (s *Store) Words() []string {
	return s.wordList
}

// Counts reports the number of entries in each mapping tier.
func (s *Store) Counts() (words, numbers, alphabet int) {
	return len(s.words), len(s.numbers), len(s.alphabet)
}

// Dir returns the directory the mappings were loaded from.
func (s *Store) Dir() string {
	return s.dir
}

// LoadedAt returns the time the mappings were read from disk.
func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}
