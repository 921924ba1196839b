// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract maps free-form medicine text to structured fields. A
// remote model does the heavy lifting when configured; a deterministic
// lexical parser is always available as the fallback so data entry is
// never blocked by a provider outage.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hliang/medshelf/pkg/types"
)

// Fields is the best-effort mapping a provider returns for one text. Only
// DrugName is expected; absence of any other field is not an error.
type Fields struct {
	DrugName      string     `json:"drug_name"`
	BrandName     string     `json:"brand_name"`
	GenericName   string     `json:"generic_name"`
	Quantity      FlexNumber `json:"quantity"`
	Unit          string     `json:"unit"`
	Specification string     `json:"specification"`
	PackageCount  FlexNumber `json:"package_count"`
	ExpiryDate    string     `json:"expiry_date"`
}

// FlexNumber tolerates numbers a model sends as JSON strings, with or
// without a trailing unit ("30", "30片"). Malformed values decode to zero
// rather than failing the whole result.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = FlexNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*n = 0
		return nil
	}
	*n = FlexNumber(leadingNumber(s))
	return nil
}

// leadingNumber parses the leading decimal number from s, if any.
func leadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

// Provider abstracts a text-to-structure backend so the service and tests
// can swap implementations. A failed call wraps types.ErrProvider and the
// caller recovers via the fallback parser.
type Provider interface {
	// Name identifies the provider in logs and status output.
	Name() string

	// Extract maps one non-empty text to structured fields.
	Extract(ctx context.Context, text string) (Fields, error)
}

// BatchProvider is implemented by providers that can structure several
// texts in one round trip. The result must have exactly one element per
// input text, in input order; anything else is an error and the caller
// degrades to per-text extraction.
type BatchProvider interface {
	ExtractBatch(ctx context.Context, texts []string) ([]Fields, error)
}

// New builds the provider selected by the configuration.
func New(cfg types.ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "anthropic", "claude", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key (set ANTHROPIC_API_KEY)")
		}
		return NewAnthropic(cfg), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key (set OPENAI_API_KEY)")
		}
		return NewOpenAI(cfg), nil
	case "none", "disabled":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: use anthropic, openai, or none", cfg.Provider)
	}
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// WithRetry calls the provider with exponential backoff between attempts.
func WithRetry(ctx context.Context, p Provider, text string, maxRetries int) (Fields, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return Fields{}, fmt.Errorf("%w: %v", types.ErrProvider, ctx.Err())
			case <-time.After(backoff):
			}
		}

		fields, err := p.Extract(ctx, text)
		if err == nil {
			return fields, nil
		}
		lastErr = err
	}
	return Fields{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// BatchWithRetry calls a batch provider with exponential backoff.
func BatchWithRetry(ctx context.Context, p BatchProvider, texts []string, maxRetries int) ([]Fields, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", types.ErrProvider, ctx.Err())
			case <-time.After(backoff):
			}
		}

		fields, err := p.ExtractBatch(ctx, texts)
		if err == nil {
			return fields, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// decodeFields parses a model reply into Fields. Replies wrapped in
// Markdown code fences are unwrapped first.
func decodeFields(reply string) (Fields, error) {
	var f Fields
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &f); err != nil {
		return Fields{}, fmt.Errorf("%w: parsing model reply: %v", types.ErrProvider, err)
	}
	return f, nil
}

// decodeFieldsArray parses a batch reply and checks the element count
// against the number of input texts.
func decodeFieldsArray(reply string, want int) ([]Fields, error) {
	var fs []Fields
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &fs); err != nil {
		return nil, fmt.Errorf("%w: parsing batch reply: %v", types.ErrProvider, err)
	}
	if len(fs) != want {
		return nil, fmt.Errorf("%w: batch reply has %d results, want %d", types.ErrProvider, len(fs), want)
	}
	return fs, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
