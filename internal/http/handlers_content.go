package httpx

import (
	"context"
	"net/http"

	"github.com/linguahub/lingua-ui/internal/adapters/learnapi"
)

// ContentAPI is the slice of the learning API the content handlers consume.
type ContentAPI interface {
	GetExam(ctx context.Context, id string) (learnapi.Exam, error)
	GetVocabularyTopic(ctx context.Context, id string) (learnapi.VocabularyTopic, error)
	GetGrammarLesson(ctx context.Context, id string) (learnapi.GrammarLesson, error)
}

// ContentHandlers proxies read-only learning content from the upstream API.
type ContentHandlers struct {
	API ContentAPI
}

// GetExam returns a practice exam by id.
// GET /api/exams/{id}.
func (h *ContentHandlers) GetExam(w http.ResponseWriter, r *http.Request) {
	exam, err := h.API.GetExam(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, exam)
}

// GetVocabularyTopic returns a vocabulary topic by id.
// GET /api/vocabulary/{id}.
func (h *ContentHandlers) GetVocabularyTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := h.API.GetVocabularyTopic(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, topic)
}

// GetGrammarLesson returns a grammar lesson by id.
// GET /api/grammar/{id}.
func (h *ContentHandlers) GetGrammarLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.API.GetGrammarLesson(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, lesson)
}
