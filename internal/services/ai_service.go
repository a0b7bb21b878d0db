package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// ErrMissingAPIKey is returned on first use when no provider key is configured.
var ErrMissingAPIKey = errors.New("model provider API key is not configured (set GEMINI_API_KEY or OPENAI_API_KEY)")

// TextModel sends a prompt to the named model and returns its raw text reply.
type TextModel interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeminiModel calls Google's Gemini API. The client is created on first use
// so a missing key only fails the request that needs it.
type GeminiModel struct {
	apiKey string

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGeminiModel(apiKey string) *GeminiModel {
	return &GeminiModel{apiKey: apiKey}
}

func (m *GeminiModel) getClient() (*genai.Client, error) {
	m.once.Do(func() {
		m.client, m.initErr = genai.NewClient(context.Background(), option.WithAPIKey(m.apiKey))
	})
	return m.client, m.initErr
}

func (m *GeminiModel) Generate(ctx context.Context, modelName, prompt string) (string, error) {
	if m.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	client, err := m.getClient()
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return geminiText(resp)
}

// Close releases the underlying client, if one was created.
func (m *GeminiModel) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("model returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("model returned an empty candidate (finish reason %s)", candidate.FinishReason)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("model returned no text (finish reason %s)", candidate.FinishReason)
	}
	return b.String(), nil
}

// OpenAIModel calls the OpenAI chat completions API in JSON mode.
type OpenAIModel struct {
	apiKey string
	client *openai.Client
}

func NewOpenAIModel(apiKey string) *OpenAIModel {
	return &OpenAIModel{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

func (m *OpenAIModel) Generate(ctx context.Context, modelName, prompt string) (string, error) {
	if m.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
