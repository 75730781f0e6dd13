// Package anthropic adapts the Anthropic Messages API to provider.Request.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/wellnote-backend/internal/provider"
)

const jsonInstruction = "Respond with ONLY one valid JSON object. No markdown, no explanations."

// Config configures the Anthropic adapter.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int64
	Temperature     float64
	Timeout         time.Duration
}

// Provider calls Claude through anthropic-sdk-go.
type Provider struct {
	client anthropic.Client
	cfg    Config
	log    *slog.Logger
}

// New creates a Provider. SDK retries are disabled: one Complete call is one
// provider invocation.
func New(cfg Config, logger *slog.Logger) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Provider{
		client: anthropic.NewClient(opts...),
		cfg:    cfg,
		log:    logger.With("adapter", "anthropic"),
	}
}

// Complete sends req and returns the text with token usage.
func (p *Provider) Complete(ctx context.Context, req provider.Request) (*provider.Completion, error) {
	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}
	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = p.cfg.MaxOutputTokens
	}
	temperature := p.cfg.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	system := req.System
	if req.StructuredOutput {
		system = strings.TrimSpace(system + "\n\n" + jsonInstruction)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   maxTokens,
		Messages:    toMessages(req.Messages),
		Temperature: anthropic.Float(temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	started := time.Now()
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: messages.new: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())

	out := &provider.Completion{
		Text:         text,
		Model:        string(msg.Model),
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}

	p.log.DebugContext(ctx, "anthropic completion",
		slog.String("model", out.Model),
		slog.Int64("input_tokens", out.InputTokens),
		slog.Int64("output_tokens", out.OutputTokens),
		slog.Duration("duration", time.Since(started)),
	)

	if text == "" {
		return nil, provider.ErrEmptyResponse
	}

	if req.StructuredOutput {
		raw, err := provider.ExtractJSON(text)
		if err != nil {
			return nil, err
		}
		if !json.Valid([]byte(raw)) {
			return nil, fmt.Errorf("%w: invalid JSON object", provider.ErrMalformedJSON)
		}
		out.Text = raw
	}

	return out, nil
}

func toMessages(in []provider.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(in))
	for _, m := range in {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == provider.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
			continue
		}
		out = append(out, anthropic.NewUserMessage(block))
	}
	return out
}
