package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/17nithinnayak/SignBridgeBackend/internal/metrics"
	"github.com/17nithinnayak/SignBridgeBackend/internal/translate"
)

type QuizHandler struct {
	quizzer QuizSource
}

func NewQuizHandler(q QuizSource) *QuizHandler {
	return &QuizHandler{quizzer: q}
}

// GenerateQuiz returns a random sign video with four shuffled word options.
func (h *QuizHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzer.Generate()
	if err != nil {
		if errors.Is(err, translate.ErrNotEnoughWords) {
			metrics.QuizzesGenerated.WithLabelValues("unavailable").Inc()
			WriteErrorWithCode(w, http.StatusServiceUnavailable, ErrQuizUnavailable,
				"not enough words in the dictionary to generate a quiz")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("quiz generation failed")
		WriteError(w, http.StatusInternalServerError, "failed to generate quiz")
		return
	}

	metrics.QuizzesGenerated.WithLabelValues("ok").Inc()
	WriteJSON(w, http.StatusOK, quiz)
}

// Routes registers quiz routes on the given router.
func (h *QuizHandler) Routes(r chi.Router) {
	r.Get("/generate-quiz", h.GenerateQuiz)
}
