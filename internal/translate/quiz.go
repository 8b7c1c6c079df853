package translate

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/17nithinnayak/SignBridgeBackend/internal/vocab"
)

// QuizOptions is the number of answer choices in a generated quiz.
const QuizOptions = 4

// ErrNotEnoughWords is returned when the word mapping is too small to fill
// a full set of distinct quiz options.
var ErrNotEnoughWords = errors.New("not enough words to generate a quiz")

// Quiz is a single multiple-choice question: play the video, pick the word.
type Quiz struct {
	VideoURL      string   `json:"video_url"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Quizzer generates quizzes from the word mapping.
type Quizzer struct {
	store *vocab.Store

	mu  sync.Mutex // guards rng, which is not safe for concurrent use
	rng *rand.Rand
}

// NewQuizzer builds a Quizzer. Pass a nil rng for time-seeded randomness;
// tests inject a fixed-seed source for deterministic output.
func NewQuizzer(store *vocab.Store, rng *rand.Rand) *Quizzer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Quizzer{store: store, rng: rng}
}

// Generate picks a random word plus three distinct decoys and shuffles them.
func (q *Quizzer) Generate() (*Quiz, error) {
	words := q.store.Words()
	if len(words) < QuizOptions {
		return nil, ErrNotEnoughWords
	}

	q.mu.Lock()
	perm := q.rng.Perm(len(words))
	options := make([]string, QuizOptions)
	for i := range options {
		options[i] = words[perm[i]]
	}
	answer := options[0]
	q.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	q.mu.Unlock()

	url, _ := q.store.LookupWord(answer)

	return &Quiz{
		VideoURL:      url,
		Options:       options,
		CorrectAnswer: answer,
	}, nil
}
