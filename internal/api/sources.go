package api

import (
	"time"

	"github.com/17nithinnayak/SignBridgeBackend/internal/translate"
)

// VocabularySource provides handlers read access to the loaded vocabulary.
// Implemented by vocab.Store.
type VocabularySource interface {
	Counts() (words, numbers, alphabet int)
	Dir() string
	LoadedAt() time.Time
}

// WatcherSource reports whether the mapping files changed on disk since
// load. Implemented by vocab.Watcher; may be nil when watching is disabled.
type WatcherSource interface {
	Stale() bool
	Changes() int64
}

// TextTranslator expands free text into ordered sign video URLs.
// Implemented by translate.Translator.
type TextTranslator interface {
	Translate(text string) []string
}

// QuizSource produces multiple-choice quizzes from the vocabulary.
// Implemented by translate.Quizzer.
type QuizSource interface {
	Generate() (*translate.Quiz, error)
}

// ResolverSource exposes resolution outcome counters.
// Implemented by translate.Resolver.
type ResolverSource interface {
	Stats() translate.Stats
}

// SessionSource reports live streaming sessions. Implemented by stream.Hub;
// nil when the streaming endpoint is disabled.
type SessionSource interface {
	SessionCount() int
}
