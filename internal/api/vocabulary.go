package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/17nithinnayak/SignBridgeBackend/internal/translate"
)

type VocabularyHandler struct {
	vocab    VocabularySource
	watch    WatcherSource
	resolver ResolverSource
}

func NewVocabularyHandler(vocab VocabularySource, watch WatcherSource, resolver ResolverSource) *VocabularyHandler {
	return &VocabularyHandler{vocab: vocab, watch: watch, resolver: resolver}
}

// VocabularyStats describes the mappings currently in memory and how
// resolution has been going against them.
type VocabularyStats struct {
	Words       int              `json:"words"`
	Numbers     int              `json:"numbers"`
	Alphabet    int              `json:"alphabet"`
	Dir         string           `json:"dir"`
	LoadedAt    time.Time        `json:"loaded_at"`
	Stale       bool             `json:"stale"`
	FileChanges int64            `json:"file_changes"`
	Resolution  *translate.Stats `json:"resolution,omitempty"`
}

// GetStats returns mapping sizes, staleness, and resolution counters.
func (h *VocabularyHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	words, numbers, alphabet := h.vocab.Counts()
	stats := VocabularyStats{
		Words:    words,
		Numbers:  numbers,
		Alphabet: alphabet,
		Dir:      h.vocab.Dir(),
		LoadedAt: h.vocab.LoadedAt(),
	}
	if h.watch != nil {
		stats.Stale = h.watch.Stale()
		stats.FileChanges = h.watch.Changes()
	}
	if h.resolver != nil {
		snapshot := h.resolver.Stats()
		stats.Resolution = &snapshot
	}
	WriteJSON(w, http.StatusOK, stats)
}

// Routes registers vocabulary routes on the given router.
func (h *VocabularyHandler) Routes(r chi.Router) {
	r.Get("/vocabulary/stats", h.GetStats)
}
