package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/17nithinnayak/SignBridgeBackend/internal/translate"
	"github.com/17nithinnayak/SignBridgeBackend/internal/vocab"
)

func main() {
	dir := os.Getenv("VOCAB_DIR")
	if dir == "" {
		dir = "."
	}

	if len(os.Args) > 1 && os.Args[1] == "probe" {
		probe(dir, os.Args[2:])
		return
	}

	if len(os.Args) > 1 && os.Args[1] == "quiz" {
		sampleQuiz(dir)
		return
	}

	// Default: raw mapping inspection
	files := []string{vocab.WordsFile, vocab.NumbersFile, vocab.AlphabetFile}
	fmt.Println("Mapping          Entries  Bad URLs  Unnormalized keys")
	fmt.Println("─────────────────────────────────────────────────────")
	for _, f := range files {
		inspect(filepath.Join(dir, f))
	}
}

// inspect reads a mapping file raw, before any cleanup the loader applies.
func inspect(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("%-16s (missing)\n", filepath.Base(path))
		return
	}

	var mapping map[string]string
	if err := json.Unmarshal(raw, &mapping); err != nil {
		fmt.Printf("%-16s (malformed: %v)\n", filepath.Base(path), err)
		return
	}

	badURLs := 0
	unnormalized := 0
	for key, value := range mapping {
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			badURLs++
		}
		if key != strings.ToLower(strings.TrimSpace(key)) {
			unnormalized++
		}
	}
	fmt.Printf("%-16s %7d  %8d  %17d\n", filepath.Base(path), len(mapping), badURLs, unnormalized)
}

// probe resolves each argument token and prints which tier answered.
func probe(dir string, tokens []string) {
	if len(tokens) == 0 {
		fmt.Println("usage: vocabcheck probe <token> [token...]")
		os.Exit(1)
	}

	store, err := vocab.Load(dir, zerolog.Nop())
	if err != nil {
		panic(err)
	}
	resolver, err := translate.NewResolver(store, 0, zerolog.Nop())
	if err != nil {
		panic(err)
	}

	for _, token := range tokens {
		urls, tier := resolver.ResolveToken(token)
		norm := translate.NormalizeToken(token)
		fmt.Printf("%q -> %q [%s]\n", token, norm, tier)
		for _, u := range urls {
			fmt.Printf("    %s\n", u)
		}
		if len(urls) == 0 {
			fmt.Println("    (no videos)")
		}
	}
}

// sampleQuiz generates one quiz from the loaded vocabulary.
func sampleQuiz(dir string) {
	store, err := vocab.Load(dir, zerolog.Nop())
	if err != nil {
		panic(err)
	}

	quizzer := translate.NewQuizzer(store, nil)
	quiz, err := quizzer.Generate()
	if err != nil {
		fmt.Printf("cannot generate quiz: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("video:   %s\n", quiz.VideoURL)
	fmt.Printf("options: %s\n", strings.Join(quiz.Options, ", "))
	fmt.Printf("answer:  %s\n", quiz.CorrectAnswer)
}
