package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/17nithinnayak/SignBridgeBackend/internal/metrics"
)

type TranslateHandler struct {
	translator TextTranslator
}

func NewTranslateHandler(t TextTranslator) *TranslateHandler {
	return &TranslateHandler{translator: t}
}

type translateRequest struct {
	// Pointer distinguishes a missing field from an explicit empty string.
	Text *string `json:"text"`
}

type translateResponse struct {
	URLs []string `json:"urls"`
}

// TranslateText resolves the posted text to an ordered list of video URLs.
// An empty text is a valid request that yields an empty list; a body
// without a text field is rejected.
func (h *TranslateHandler) TranslateText(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, ErrInvalidBody, "invalid request body")
		return
	}
	if req.Text == nil {
		WriteErrorWithCode(w, http.StatusBadRequest, ErrMissingField, "text field is required")
		return
	}

	urls := h.translator.Translate(*req.Text)
	metrics.TranslationsTotal.WithLabelValues("http").Inc()
	hlog.FromRequest(r).Debug().
		Int("text_len", len(*req.Text)).
		Int("urls", len(urls)).
		Msg("text translated")

	WriteJSON(w, http.StatusOK, translateResponse{URLs: urls})
}

// Routes registers translation routes on the given router.
func (h *TranslateHandler) Routes(r chi.Router) {
	r.Post("/translate-text", h.TranslateText)
}
