package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/diagnosis"
	"github.com/abhisek/aiready/internal/report"
	"github.com/abhisek/aiready/internal/scoring"
	"github.com/abhisek/aiready/internal/store"
)

// maxListLimit caps the limit query parameter of the list endpoint.
const maxListLimit = 500

type handlers struct {
	svc *diagnosis.Service
	exp *report.Exporter
	log *zap.Logger
}

// SubmitRequest is the body of POST /diagnoses. Answers maps question ids
// to 0-based choice indices; invalid entries count as unanswered.
type SubmitRequest struct {
	FacilityName  string         `json:"facility_name" binding:"max=200"`
	SessionID     string         `json:"session_id" binding:"max=128"`
	UserID        string         `json:"user_id" binding:"max=128"`
	Answers       map[string]any `json:"answers" binding:"required"`
	DiagnosisDate *time.Time     `json:"diagnosis_date"`
}

type listQuery struct {
	Limit     int    `form:"limit" binding:"min=0"`
	SessionID string `form:"session_id" binding:"max=128"`
}

type catalogQuestion struct {
	ID      string           `json:"id"`
	Number  int              `json:"number"`
	Text    string           `json:"text"`
	Choices []catalog.Choice `json:"choices"`
}

type catalogCategory struct {
	Key         catalog.CategoryKey `json:"key"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Baseline    *int                `json:"baseline,omitempty"`
	MaxScore    int                 `json:"max_score"`
	Questions   []catalogQuestion   `json:"questions"`
}

type catalogResponse struct {
	Version    string            `json:"version"`
	MaxScore   int               `json:"max_score"`
	Categories []catalogCategory `json:"categories"`
}

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *handlers) getCatalog(c *gin.Context) {
	cat := h.svc.Catalog()
	resp := catalogResponse{
		Version:  cat.Version(),
		MaxScore: cat.TotalMaxScore(),
	}
	for _, cg := range cat.Categories() {
		out := catalogCategory{
			Key:         cg.Key,
			Name:        cg.Name,
			Description: cg.Description,
			Baseline:    cg.Baseline,
			MaxScore:    cat.CategoryMaxScore(cg.Key),
		}
		for _, q := range cg.Questions {
			out.Questions = append(out.Questions, catalogQuestion{
				ID:      q.ID,
				Number:  cat.QuestionNumber(q.ID),
				Text:    q.Text,
				Choices: q.Choices,
			})
		}
		resp.Categories = append(resp.Categories, out)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) createDiagnosis(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	sub := diagnosis.Submission{
		SessionID:    req.SessionID,
		UserID:       req.UserID,
		FacilityName: req.FacilityName,
		Answers:      scoring.ParseAnswerSet(req.Answers),
	}
	if req.DiagnosisDate != nil {
		sub.SubmittedAt = *req.DiagnosisDate
	}

	rec, err := h.svc.Submit(c.Request.Context(), sub)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/diagnoses/%d", rec.ID))
	c.JSON(http.StatusCreated, rec)
}

func (h *handlers) listDiagnoses(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	limit := q.Limit
	if limit == 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	recs, err := h.svc.List(c.Request.Context(), store.ListOpts{Limit: limit, SessionID: q.SessionID})
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	if recs == nil {
		recs = []store.Diagnosis{}
	}
	c.JSON(http.StatusOK, gin.H{"diagnoses": recs, "count": len(recs)})
}

// lookup resolves the :id parameter to a record, writing the error
// response itself when it returns nil.
func (h *handlers) lookup(c *gin.Context) *store.Diagnosis {
	id, ok := parseID(c)
	if !ok {
		return nil
	}
	rec, err := h.svc.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, diagnosis.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err)
		return nil
	case err != nil:
		respondError(c, http.StatusInternalServerError, CodeInternal, err)
		return nil
	}
	return rec
}

func (h *handlers) getDiagnosis(c *gin.Context) {
	if rec := h.lookup(c); rec != nil {
		c.JSON(http.StatusOK, rec)
	}
}

func (h *handlers) deleteDiagnosis(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, CodeNotFound, fmt.Errorf("diagnosis %d: %w", id, diagnosis.ErrNotFound))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) exportDiagnosis(c *gin.Context) {
	format := c.Param("format")
	if report.ContentType(format) == "" {
		respondError(c, http.StatusBadRequest, CodeUnknownFormat,
			fmt.Errorf("%w: %q", report.ErrUnknownFormat, format))
		return
	}
	rec := h.lookup(c)
	if rec == nil {
		return
	}

	data, err := h.exp.Export(format, rec)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	h.log.Debug("export served",
		zap.Int64("id", rec.ID), zap.String("format", format), zap.Int("bytes", len(data)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(rec, format)))
	c.Data(http.StatusOK, report.ContentType(format), data)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, CodeBadRequest, fmt.Errorf("invalid diagnosis id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}
