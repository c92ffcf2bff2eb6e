package llm

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/transfermatch/internal/model"
)

// OpenAIProvider narrates with the Chat Completions API. It also serves
// OpenAI-compatible endpoints such as Ollama.
type OpenAIProvider struct {
	client *openai.Client
	config Config
	name   string
}

// NewOpenAIProvider creates an OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   "openai",
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable lists models as a cheap reachability and credentials check
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.ListModels(ctx); err != nil {
		slog.Warn("LLM availability check failed", "provider", p.name, "error", err)
		return false
	}
	return true
}

// Narrate generates advising prose. With StrictCourses set, prose that
// mentions a course outside the allow-list is rejected.
func (p *OpenAIProvider) Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Report, req.AllowedCourses)
	}

	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 600
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a transfer advisor. You restate verdicts computed by a rules engine and never change them.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	mentioned := extractCourses(text)

	if p.config.StrictCourses {
		for _, code := range mentioned {
			if !containsCode(req.AllowedCourses, code) {
				return nil, fmt.Errorf("course leak: narration mentions %s, which is not in the agreement or the profile", code)
			}
		}
	}

	return &NarrateResponse{
		Text:             text,
		MentionedCourses: mentioned,
		Model:            modelName,
		TokensUsed:       resp.Usage.TotalTokens,
	}, nil
}

// coursePattern matches course codes such as "MATH 1A", "CIS22A" or "PHYS 4AH"
var coursePattern = regexp.MustCompile(`\b[A-Z]{2,6} ?\d{1,3}[A-Z]{0,3}\b`)

func extractCourses(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range coursePattern.FindAllString(text, -1) {
		code := model.NormalizeCode(m)
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if model.SameCode(c, code) {
			return true
		}
	}
	return false
}
