// Package service hosts the recipe generation collaborator: an
// OpenAI-compatible chat completion client that converts a free-text
// description into a recipe draft, plus the draft stores backing the
// review flow.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mbertin/recipevault/config"
	"github.com/mbertin/recipevault/internal/model"
)

// ErrEmptyResponse is returned when the API answers without any choice.
var ErrEmptyResponse = errors.New("no response from API")

// Compile-time interface check.
var _ RecipeGenerator = (*LLMService)(nil)

// LLMService generates recipe drafts through a chat completion API.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	drafts DraftStore
	log    *zap.Logger
}

// NewLLMService creates a generator from the loaded configuration.
func NewLLMService(cfg *config.Config, drafts DraftStore, log *zap.Logger) (*LLMService, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY or LLM_API_KEY_FILE must be set")
	}
	return &LLMService{
		apiKey: cfg.LLMAPIKey,
		apiURL: cfg.LLMAPIURL,
		model:  cfg.LLMModel,
		client: &http.Client{Timeout: 60 * time.Second},
		drafts: drafts,
		log:    log,
	}, nil
}

// Message represents a message in the chat.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat completion request.
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

var systemPrompt = fmt.Sprintf(`You are a recipe transcription assistant. Given a free-text recipe description, respond with a single JSON object using this structure:
{
    "name": "Recipe name",
    "description": "Short description",
    "category": ["one or more of: %s"],
    "prepTime": preparation time in minutes (number),
    "cookTime": cooking time in minutes (number),
    "servings": number of servings (number),
    "ingredients": [
        {"name": "ingredient name", "amount": "decimal amount", "unit": "one of: %s"}
    ],
    "steps": [{"description": "what to do"}],
    "image": "",
    "macros": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}
}

Propose realistic values when the description leaves something out, but always leave the image field empty. Macros must be numbers, not strings. Respond with the JSON object only, no surrounding text.`,
	strings.Join(model.Categories, ", "),
	strings.Join(model.Units, ", "))

// GenerateRecipe asks the API to structure the given description into a
// recipe draft. The draft is cached in the draft store for the review flow
// and returned as a loose form for normalization.
func (s *LLMService) GenerateRecipe(ctx context.Context, description string) (*model.RecipeForm, error) {
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Here is a recipe description:\n%q", description)},
	}

	reqBody := Request{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.log.Warn("generation request failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	content := stripFences(result.Choices[0].Message.Content)

	var form model.RecipeForm
	if err := json.Unmarshal([]byte(content), &form); err != nil {
		s.log.Warn("generation returned unparseable content", zap.Error(err))
		return nil, fmt.Errorf("failed to parse generated recipe: %w", err)
	}

	draft := &Draft{Source: description, Form: form}
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		// Draft caching is best effort; the form is already in hand.
		s.log.Warn("failed to cache generated draft", zap.Error(err))
	}

	return &form, nil
}

// stripFences removes a markdown code fence around a JSON payload. Models
// add them despite instructions.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
