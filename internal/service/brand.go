package service

import (
	"context"

	"github.com/mkral/adpilot/internal/config"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
)

// BrandService resolves the brand context handed to creative generators.
// With retrieval enabled it embeds the action's recommendation text and
// searches the brand snippet store; otherwise it returns the static context
// from configuration. Retrieval failures degrade to the static context
// rather than failing the content stage.
type BrandService struct {
	cfg       config.BrandConfig
	brandRepo *repository.BrandRepository
	embedding *EmbeddingService
	logger    *logger.Logger
}

// NewBrandService creates a new brand service. brandRepo and embedding may be
// nil when retrieval is disabled.
func NewBrandService(
	cfg config.BrandConfig,
	brandRepo *repository.BrandRepository,
	embedding *EmbeddingService,
	log *logger.Logger,
) *BrandService {
	return &BrandService{
		cfg:       cfg,
		brandRepo: brandRepo,
		embedding: embedding,
		logger:    log,
	}
}

func (s *BrandService) staticContext() domain.BrandContext {
	return domain.BrandContext{
		Tone:           s.cfg.Tone,
		Voice:          s.cfg.Voice,
		ForbiddenWords: []string{},
	}
}

// Context returns the brand context for one action.
func (s *BrandService) Context(ctx context.Context, action domain.Action) (domain.BrandContext, error) {
	brand := s.staticContext()
	if !s.cfg.Enabled || s.brandRepo == nil || s.embedding == nil {
		return brand, nil
	}

	vector, err := s.embedding.EmbedQuery(ctx, action.Description)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Brand snippet retrieval failed, using static context")
		return brand, nil
	}

	snippets, err := s.brandRepo.SearchSnippets(ctx, vector, s.cfg.TopK)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Brand snippet retrieval failed, using static context")
		return brand, nil
	}

	for _, snippet := range snippets {
		if snippet.Text != "" {
			brand.Snippets = append(brand.Snippets, snippet.Text)
		}
	}
	return brand, nil
}

// IndexSnippet embeds and stores one brand guidance passage for retrieval.
func (s *BrandService) IndexSnippet(ctx context.Context, snippet *repository.BrandSnippet) error {
	vector, err := s.embedding.EmbedPassage(ctx, snippet.Text)
	if err != nil {
		return err
	}
	return s.brandRepo.UpsertSnippet(ctx, snippet, vector)
}
