// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/hliang/medshelf/pkg/types"
)

// OpenAI structures medicine text through the OpenAI Responses API.
type OpenAI struct {
	client      openai.Client
	model       shared.ResponsesModel
	maxTokens   int64
	temperature float64
}

// NewOpenAI builds the provider from the given configuration.
func NewOpenAI(cfg types.ProviderConfig) *OpenAI {
	return &OpenAI{
		client:      openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       shared.ResponsesModel(cfg.Model),
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
}

func (o *OpenAI) Name() string { return "openai" }

// Extract sends the extraction prompt for one text and decodes the JSON
// reply. All failures wrap types.ErrProvider so the caller can fall back.
func (o *OpenAI) Extract(ctx context.Context, text string) (Fields, error) {
	prompt, err := renderExtractPrompt(text)
	if err != nil {
		return Fields{}, err
	}

	reply, err := o.complete(ctx, prompt, o.maxTokens)
	if err != nil {
		return Fields{}, err
	}
	return decodeFields(reply)
}

// ExtractBatch sends one prompt covering several texts; see the
// BatchProvider contract.
func (o *OpenAI) ExtractBatch(ctx context.Context, texts []string) ([]Fields, error) {
	prompt, err := renderBatchPrompt(texts)
	if err != nil {
		return nil, err
	}

	reply, err := o.complete(ctx, prompt, o.maxTokens*2)
	if err != nil {
		return nil, err
	}
	return decodeFieldsArray(reply, len(texts))
}

func (o *OpenAI) complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           o.model,
		Temperature:     openai.Float(o.temperature),
		MaxOutputTokens: openai.Int(maxTokens),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(systemPrompt, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", types.ErrProvider, err)
	}

	reply := strings.TrimSpace(resp.OutputText())
	if reply == "" {
		return "", fmt.Errorf("%w: empty openai response", types.ErrProvider)
	}
	return reply, nil
}
