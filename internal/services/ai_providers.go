package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/codecritic/codecritic/internal/config"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// newCaller picks the provider transport from config. Gemini is the
// default.
func newCaller(cfg *config.AIConfig) llmCaller {
	switch cfg.Provider {
	case "openai":
		return &openAICaller{cfg: cfg}
	case "anthropic":
		return &anthropicCaller{cfg: cfg}
	case "ollama":
		return &ollamaCaller{cfg: cfg}
	default:
		return &geminiCaller{cfg: cfg}
	}
}

// providerNeedsKey reports whether the provider requires an API credential.
// Ollama serves local models without one.
func providerNeedsKey(provider string) bool {
	return provider != "ollama"
}

type geminiCaller struct {
	cfg *config.AIConfig
}

func (g *geminiCaller) Name() string { return "gemini" }

func (g *geminiCaller) Generate(ctx context.Context, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: g.cfg.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}

// openAICaller handles OpenAI and OpenAI-compatible endpoints via BaseURL.
type openAICaller struct {
	cfg *config.AIConfig
}

func (o *openAICaller) Name() string { return "openai" }

func (o *openAICaller) Generate(ctx context.Context, model, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(o.cfg.APIKey)
	if o.cfg.BaseURL != "" {
		clientConfig.BaseURL = o.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	temperature := float32(0.3)
	if o.cfg.Temperature > 0 {
		temperature = float32(o.cfg.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

type anthropicCaller struct {
	cfg *config.AIConfig
}

func (a *anthropicCaller) Name() string { return "anthropic" }

func (a *anthropicCaller) Generate(ctx context.Context, model, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(a.cfg.APIKey),
	)

	maxTokens := int64(a.cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 4096
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return content, nil
}

type ollamaCaller struct {
	cfg *config.AIConfig
}

func (o *ollamaCaller) Name() string { return "ollama" }

func (o *ollamaCaller) Generate(ctx context.Context, model, prompt string) (string, error) {
	baseURL := o.cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": o.cfg.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	return content.String(), nil
}
