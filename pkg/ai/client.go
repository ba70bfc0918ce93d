package ai

import (
	"context"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog/log"
	"isvaryam.com/storefront/pkg/global"
)

const defaultDeployment = "gpt-35-turbo"

// Client wraps an Azure OpenAI chat deployment.
type Client struct {
	chat       *openai.Client
	deployment string
}

// NewClient returns nil when the endpoint or key is missing; reports then
// carry raw data only.
func NewClient(cfg global.AIConfig) *Client {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		log.Info().Msg("AI service disabled - AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY not set")
		return nil
	}

	chat := openai.NewClient(
		option.WithBaseURL(cfg.Endpoint),
		option.WithAPIKey(cfg.APIKey),
	)
	deployment := cfg.Deployment
	if deployment == "" {
		deployment = defaultDeployment
	}

	log.Info().Str("deployment", deployment).Msg("AI service initialized with Azure OpenAI")
	return &Client{chat: &chat, deployment: deployment}
}

// Complete sends one system + user exchange and returns the first choice.
func (c *Client) Complete(ctx context.Context, systemMessage, userMessage string) (string, error) {
	resp, err := c.chat.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemMessage),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens:   openai.Int(1500),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		log.Error().Err(err).Msg("AI API error")
		return "", &AIError{Message: "Failed to generate AI response", Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Message: "AI returned empty response"}
	}
	return resp.Choices[0].Message.Content, nil
}

type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AIError) Unwrap() error {
	return e.Cause
}
