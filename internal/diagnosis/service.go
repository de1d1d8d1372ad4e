// Package diagnosis turns questionnaire submissions into stored
// diagnosis records and reads them back.
package diagnosis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/commentary"
	"github.com/abhisek/aiready/internal/scoring"
	"github.com/abhisek/aiready/internal/store"
)

// Service scores submissions and manages diagnosis records.
type Service struct {
	cat      *catalog.Catalog
	repo     store.DiagnosisRepo
	comments *commentary.Service
	log      *zap.Logger

	now func() time.Time
}

// NewService creates a diagnosis service. comments may be nil, in which
// case canned commentary is stored.
func NewService(cat *catalog.Catalog, repo store.DiagnosisRepo, comments *commentary.Service, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cat:      cat,
		repo:     repo,
		comments: comments,
		log:      log.With(zap.String("component", "diagnosis")),
		now:      time.Now,
	}
}

// Catalog returns the question catalog submissions are scored against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.cat
}

// Submit scores sub, attaches commentary and stores the result.
func (s *Service) Submit(ctx context.Context, sub Submission) (*store.Diagnosis, error) {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now()
	}
	if sub.SessionID == "" {
		sub.SessionID = uuid.NewString()
	}

	res := scoring.Score(s.cat, sub.Answers)

	var comments map[catalog.CategoryKey]string
	if s.comments != nil {
		comments = s.comments.Comments(ctx, res)
	} else {
		comments = commentary.CannedComments(res)
	}

	rec := BuildRecord(s.cat, res, sub, comments)
	if _, err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("store diagnosis: %w", err)
	}

	s.log.Info("diagnosis stored",
		zap.Int64("id", rec.ID),
		zap.String("session_id", rec.SessionID),
		zap.Int("total", rec.TotalScore),
		zap.String("rank", rec.Rank))
	return rec, nil
}

// Get returns one diagnosis or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*store.Diagnosis, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get diagnosis %d: %w", id, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("diagnosis %d: %w", id, ErrNotFound)
	}
	return rec, nil
}

// List returns diagnoses, most recent first.
func (s *Service) List(ctx context.Context, opts store.ListOpts) ([]store.Diagnosis, error) {
	recs, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	return recs, nil
}

// Delete removes a diagnosis. It reports false when id is unknown.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete diagnosis %d: %w", id, err)
	}
	if ok {
		s.log.Info("diagnosis deleted", zap.Int64("id", id))
	}
	return ok, nil
}

// BuildRecord flattens a score result and the submission it came from
// into a storable record. Categories and answers follow catalog order.
func BuildRecord(cat *catalog.Catalog, res scoring.Result, sub Submission, comments map[catalog.CategoryKey]string) *store.Diagnosis {
	rec := &store.Diagnosis{
		FacilityName:  sub.FacilityName,
		DiagnosisDate: sub.SubmittedAt,
		TotalScore:    res.Total,
		MaxScore:      res.Max,
		Percentage:    res.Percentage,
		Rank:          res.Rank,
		SessionID:     sub.SessionID,
		UserID:        sub.UserID,
	}

	priority := make(map[catalog.CategoryKey]int, len(res.Priorities))
	for i, p := range res.Priorities {
		priority[p.Key] = i + 1
	}

	for _, cs := range res.Categories {
		cr := store.CategoryResult{
			Key:        string(cs.Key),
			Score:      cs.Score,
			MaxScore:   cs.Max,
			Percentage: cs.Percentage,
			Priority:   priority[cs.Key],
			Comment:    comments[cs.Key],
		}
		if base, ok := cat.Baseline(cs.Key); ok {
			diff := res.BaselineDiff[cs.Key]
			cr.Baseline = &base
			cr.Diff = &diff
		}
		rec.Categories = append(rec.Categories, cr)
	}

	for _, q := range cat.AllQuestions() {
		ar := store.AnswerRecord{
			QuestionID: q.ID,
			Category:   string(q.Category),
			Number:     cat.QuestionNumber(q.ID),
			Question:   q.Text,
			Answer:     store.UnansweredText,
		}
		if idx, ok := sub.Answers[q.ID]; ok {
			if ch, ok := q.Choice(idx); ok {
				score := ch.Score
				ar.Answer = ch.Text
				ar.Choice = &idx
				ar.Score = &score
			}
		}
		rec.Answers = append(rec.Answers, ar)
	}

	return rec
}
