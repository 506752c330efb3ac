package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

const (
	DefaultModel     = string(anthropic.ModelClaudeHaiku4_5_20251001)
	defaultMaxTokens = 1024
)

// ErrNoAPIKey means neither the config nor ANTHROPIC_API_KEY carries a key.
var ErrNoAPIKey = errors.New("no Anthropic API key configured")

// Config selects the model and how to reach it.
type Config struct {
	Model string
	// APIKey falls back to ANTHROPIC_API_KEY when empty.
	APIKey     string
	UseBedrock bool
	AWSRegion  string
	AWSProfile string
	// BaseURL overrides the API endpoint, e.g. for a proxy.
	BaseURL string
	// Timeout bounds a single Generate call. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Client is a Generator backed by the Anthropic Messages API, directly or
// through AWS Bedrock.
type Client struct {
	inner   anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	var opts []option.RequestOption

	if cfg.UseBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, ErrNoAPIKey
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.Model(DefaultModel)
	}
	if cfg.UseBedrock {
		model = bedrockModel(model)
	}

	return &Client{
		inner:   anthropic.NewClient(opts...),
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

// New returns a Client, or Offline when the client cannot be built. The
// caller always gets a usable Generator.
func New(cfg Config) Generator {
	c, err := NewClient(cfg)
	if err != nil {
		slog.Warn("generation disabled", "error", err)
		return Offline{}
	}
	return c
}

// bedrockModel maps Anthropic model names to Bedrock cross-region inference
// profiles. Unknown names pass through.
func bedrockModel(model anthropic.Model) anthropic.Model {
	if strings.HasPrefix(string(model), "us.anthropic.") {
		return model
	}
	profiles := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
	}
	if p, ok := profiles[model]; ok {
		return anthropic.Model(p)
	}
	return model
}

func (c *Client) Model() string {
	return string(c.model)
}

func (c *Client) Generate(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if systemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemInstruction}}
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("messages.new: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String(), nil
}
