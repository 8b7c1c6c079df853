package api

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status         string            `json:"status"`
	Version        string            `json:"version"`
	UptimeSeconds  int64             `json:"uptime_seconds"`
	Checks         map[string]string `json:"checks"`
	Vocabulary     *VocabularyCounts `json:"vocabulary,omitempty"`
	ActiveSessions *int              `json:"active_sessions,omitempty"`
}

// VocabularyCounts summarizes the loaded mappings for the health payload.
type VocabularyCounts struct {
	Words    int `json:"words"`
	Numbers  int `json:"numbers"`
	Alphabet int `json:"alphabet"`
}

type HealthHandler struct {
	vocab     VocabularySource
	watch     WatcherSource
	sessions  SessionSource
	version   string
	startTime time.Time
}

func NewHealthHandler(vocab VocabularySource, watch WatcherSource, sessions SessionSource, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		vocab:     vocab,
		watch:     watch,
		sessions:  sessions,
		version:   version,
		startTime: startTime,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "healthy"

	// With no words and no alphabet every translation resolves to nothing.
	words, numbers, alphabet := h.vocab.Counts()
	if words == 0 && alphabet == 0 {
		checks["vocabulary"] = "empty"
		status = "degraded"
	} else {
		checks["vocabulary"] = "ok"
	}

	// Watcher check
	if h.watch == nil {
		checks["vocabulary_files"] = "not_watched"
	} else if h.watch.Stale() {
		checks["vocabulary_files"] = "stale"
	} else {
		checks["vocabulary_files"] = "ok"
	}

	resp := HealthResponse{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        checks,
		Vocabulary: &VocabularyCounts{
			Words:    words,
			Numbers:  numbers,
			Alphabet: alphabet,
		},
	}

	// Streaming check
	if h.sessions != nil {
		checks["streaming"] = "ok"
		n := h.sessions.SessionCount()
		resp.ActiveSessions = &n
	} else {
		checks["streaming"] = "not_configured"
	}

	WriteJSON(w, http.StatusOK, resp)
}
