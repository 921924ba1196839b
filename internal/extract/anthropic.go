// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hliang/medshelf/pkg/types"
)

// Anthropic structures medicine text through the Claude Messages API.
type Anthropic struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewAnthropic builds the provider from the given configuration.
func NewAnthropic(cfg types.ProviderConfig) *Anthropic {
	return &Anthropic{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       cfg.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

// Extract sends the extraction prompt for one text and decodes the JSON
// reply. All failures wrap types.ErrProvider so the caller can fall back.
func (a *Anthropic) Extract(ctx context.Context, text string) (Fields, error) {
	prompt, err := renderExtractPrompt(text)
	if err != nil {
		return Fields{}, err
	}

	reply, err := a.complete(ctx, prompt, a.maxTokens)
	if err != nil {
		return Fields{}, err
	}
	return decodeFields(reply)
}

// ExtractBatch sends one prompt covering several texts. The reply must be
// a JSON array with one element per text; a count mismatch is an error and
// the caller degrades to per-text calls.
func (a *Anthropic) ExtractBatch(ctx context.Context, texts []string) ([]Fields, error) {
	prompt, err := renderBatchPrompt(texts)
	if err != nil {
		return nil, err
	}

	// Batch replies need room for every element.
	reply, err := a.complete(ctx, prompt, a.maxTokens*2)
	if err != nil {
		return nil, err
	}
	return decodeFieldsArray(reply, len(texts))
}

func (a *Anthropic) complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(a.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %v", types.ErrProvider, err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: no text content in anthropic response", types.ErrProvider)
}
