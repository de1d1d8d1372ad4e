// Package commentary writes the per-category remarks stored with each
// diagnosis, using an LLM when one is configured and canned text otherwise.
package commentary

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/llm"
	"github.com/abhisek/aiready/internal/scoring"
)

// Service produces category commentary.
type Service struct {
	provider llm.Provider
	cat      *catalog.Catalog
	cfg      Config
	log      *zap.Logger
}

// NewService creates a commentary service. provider may be nil, in which
// case only canned commentary is produced.
func NewService(provider llm.Provider, cat *catalog.Catalog, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		provider: provider,
		cat:      cat,
		cfg:      cfg,
		log:      log.With(zap.String("component", "commentary")),
	}
}

// Comments returns one comment per category in res. It never fails: any
// LLM problem falls back to canned commentary for every category.
func (s *Service) Comments(ctx context.Context, res scoring.Result) map[catalog.CategoryKey]string {
	if s.provider != nil && s.cfg.Enabled {
		out, err := s.generate(ctx, res)
		if err == nil {
			return out
		}
		s.log.Warn("falling back to canned commentary", zap.Error(err))
	}
	return CannedComments(res)
}

func (s *Service) generate(ctx context.Context, res scoring.Result) (map[catalog.CategoryKey]string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeCommentary)
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(s.cat, res)}},
		Schema:      schemaFor(s.cat),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("commentary generation: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse commentary response: %w", err)
	}

	out := make(map[catalog.CategoryKey]string, len(res.Categories))
	for _, cs := range res.Categories {
		text, ok := raw[string(cs.Key)]
		if !ok || text == "" {
			return nil, fmt.Errorf("commentary missing for category %q", cs.Key)
		}
		out[cs.Key] = text
	}
	return out, nil
}

// CannedComments derives a comment for each category from its
// percentage band.
func CannedComments(res scoring.Result) map[catalog.CategoryKey]string {
	out := make(map[catalog.CategoryKey]string, len(res.Categories))
	for _, cs := range res.Categories {
		out[cs.Key] = Canned(cs.Percentage)
	}
	return out
}

// Canned returns the stock comment for a category percentage.
func Canned(percentage float64) string {
	switch {
	case percentage >= 80:
		return "This area is well prepared. Keep current practices in place and use them as a model for weaker categories."
	case percentage >= 60:
		return "Foundations are in place. Close the remaining gaps before starting a wider AI rollout."
	case percentage >= 40:
		return "Preparation has started but is uneven. Focused work here will noticeably raise overall readiness."
	default:
		return "Improvement in this category is recommended. Address it early, since it is likely to block AI adoption."
	}
}
