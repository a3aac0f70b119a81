package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/mkral/adpilot/internal/domain"
	"github.com/mkral/adpilot/internal/logger"
	"github.com/mkral/adpilot/internal/repository"
)

// Generator produces creative fields for a recommended test action. The
// deterministic template generator and a real generative backend are
// interchangeable behind this interface.
type Generator interface {
	Generate(ctx context.Context, brand domain.BrandContext, action domain.Action) (domain.CreativeFields, error)
}

// ContentService stages one draft creative per test-type action.
type ContentService struct {
	creativeRepo *repository.CreativeRepository
	generator    Generator
	brand        *BrandService
	logger       *logger.Logger
}

// NewContentService creates a new content service.
func NewContentService(
	creativeRepo *repository.CreativeRepository,
	generator Generator,
	brand *BrandService,
	log *logger.Logger,
) *ContentService {
	return &ContentService{
		creativeRepo: creativeRepo,
		generator:    generator,
		brand:        brand,
		logger:       log,
	}
}

// CreateCreatives filters actions to type=test and stages one draft creative
// per test action, linked to the run and the source action.
func (s *ContentService) CreateCreatives(ctx context.Context, runID string, actions []domain.Action) ([]domain.Creative, error) {
	var creatives []domain.Creative

	for _, action := range actions {
		if action.ActionType != domain.ActionTypeTest {
			continue
		}

		brand, err := s.brand.Context(ctx, action)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve brand context: %w", err)
		}

		fields, err := s.generator.Generate(ctx, brand, action)
		if err != nil {
			return nil, fmt.Errorf("failed to generate creative for action %s: %w", action.ID, err)
		}

		creative := domain.Creative{
			ID:           uuid.New().String(),
			AgentRunID:   runID,
			ActionID:     action.ID,
			Platform:     fields.Platform,
			CreativeType: fields.CreativeType,
			Headline:     fields.Headline,
			PrimaryText:  fields.PrimaryText,
			Description:  fields.Description,
			CallToAction: fields.CallToAction,
			Status:       domain.CreativeStatusDraft,
		}
		if err := s.creativeRepo.Create(ctx, &creative); err != nil {
			return nil, fmt.Errorf("failed to persist creative: %w", err)
		}
		creatives = append(creatives, creative)
	}

	logger.With(logger.Fields{
		logger.FieldRunID: runID,
		"creatives":       len(creatives),
	}).Info(ctx, "Content stage finished")

	return creatives, nil
}

// TemplateGenerator is the deterministic default Generator. It returns a
// fixed ad-copy template for the configured platform.
type TemplateGenerator struct {
	Platform string
}

// Generate returns the constant template creative.
func (g *TemplateGenerator) Generate(_ context.Context, _ domain.BrandContext, _ domain.Action) (domain.CreativeFields, error) {
	platform := g.Platform
	if platform == "" {
		platform = "meta"
	}
	return domain.CreativeFields{
		Platform:     platform,
		CreativeType: "ad_copy",
		Headline:     "Transform Your Business Today",
		PrimaryText:  "Join thousands of companies achieving better results with our platform.",
		Description:  "Trusted by industry leaders",
		CallToAction: "Learn More",
	}, nil
}

// OpenAIGenerator produces creative fields through an OpenAI-compatible chat
// completions endpoint.
type OpenAIGenerator struct {
	client   *resty.Client
	model    string
	endpoint string
	platform string
}

// OpenAIGeneratorConfig holds configuration for the generative backend.
type OpenAIGeneratorConfig struct {
	Model    string
	APIKey   string
	BaseURL  string
	Platform string
}

// NewOpenAIGenerator creates a generator backed by a chat completions API.
func NewOpenAIGenerator(cfg *OpenAIGeneratorConfig) *OpenAIGenerator {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIGenerator{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/chat/completions",
		platform: cfg.Platform,
	}
}

// OpenAI-compatible chat completion request/response structures
type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	MaxTokens      int               `json:"max_tokens"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

const creativeSystemPrompt = `You are an advertising copywriter. Respond with a JSON object holding the keys headline, primary_text, description, and call_to_action. Keep the headline under 40 characters and the primary text under 125 characters.`

// Generate asks the backend for ad copy matching the brand context and the
// action's recommendation, and parses the JSON reply into creative fields.
func (g *OpenAIGenerator) Generate(ctx context.Context, brand domain.BrandContext, action domain.Action) (domain.CreativeFields, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Write ad copy for a creative test.\nRecommendation: %s\nTone: %s\nVoice: %s\n", action.Description, brand.Tone, brand.Voice)
	if len(brand.ForbiddenWords) > 0 {
		fmt.Fprintf(&prompt, "Never use these words: %s\n", strings.Join(brand.ForbiddenWords, ", "))
	}
	for _, snippet := range brand.Snippets {
		fmt.Fprintf(&prompt, "Brand guidance: %s\n", snippet)
	}

	req := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: creativeSystemPrompt},
			{Role: "user", Content: prompt.String()},
		},
		MaxTokens:      512,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	var resp chatResponse
	httpResp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(g.endpoint)
	if err != nil {
		return domain.CreativeFields{}, fmt.Errorf("failed to call generation API: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		if resp.Error != nil {
			return domain.CreativeFields{}, fmt.Errorf("generation API error: %s", resp.Error.Message)
		}
		return domain.CreativeFields{}, fmt.Errorf("generation API error: status %d", httpResp.StatusCode())
	}
	if len(resp.Choices) == 0 {
		return domain.CreativeFields{}, fmt.Errorf("generation API returned no choices")
	}

	var parsed struct {
		Headline     string `json:"headline"`
		PrimaryText  string `json:"primary_text"`
		Description  string `json:"description"`
		CallToAction string `json:"call_to_action"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return domain.CreativeFields{}, fmt.Errorf("failed to parse generated creative: %w", err)
	}

	platform := g.platform
	if platform == "" {
		platform = "meta"
	}
	return domain.CreativeFields{
		Platform:     platform,
		CreativeType: "ad_copy",
		Headline:     parsed.Headline,
		PrimaryText:  parsed.PrimaryText,
		Description:  parsed.Description,
		CallToAction: parsed.CallToAction,
	}, nil
}
