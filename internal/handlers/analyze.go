package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lehigh-university-libraries/bookmatch/internal/analysis"
	"github.com/lehigh-university-libraries/bookmatch/internal/models"
	"github.com/lehigh-university-libraries/bookmatch/internal/prompt"
)

const (
	maxBodyBytes     = 1 << 20
	internalErrorMsg = "internal analysis error"
)

// HandleAnalyze uses the template named in the body, or the configured default.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, "")
}

// HandleRate always uses the compact rating template.
func (h *Handler) HandleRate(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, prompt.TemplateRating)
}

// HandleDescribe uses the detailed template and returns the description used.
func (h *Handler) HandleDescribe(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, prompt.TemplateDescribe)
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("OK")); err != nil {
		h.writeError(w, "Unable to write healthcheck", http.StatusInternalServerError)
	}
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request, template string) {
	var request models.AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(&request); err != nil {
		h.writeError(w, "Missing book data or user preferences: "+validationMessage(err), http.StatusBadRequest)
		return
	}

	if template == "" {
		template = request.Template
	}

	profile := *request.UserPreferences
	if len(profile.ReadingHistory) == 0 {
		profile.ReadingHistory = request.ReadingHistory
	}

	result, err := h.analyzer.Analyze(r.Context(), analysis.Request{
		Book:     request.Book,
		Profile:  &profile,
		Template: template,
	})
	if err != nil {
		if errors.Is(err, analysis.ErrBadRequest) {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeError(w, internalErrorMsg, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}
