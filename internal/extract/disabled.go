// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"

	"github.com/hliang/medshelf/pkg/types"
)

// Disabled is the no-provider variant. Every call reports an extraction
// failure so the caller routes straight to the fallback parser.
type Disabled struct{}

func (Disabled) Name() string { return "none" }

func (Disabled) Extract(context.Context, string) (Fields, error) {
	return Fields{}, fmt.Errorf("%w: extraction disabled", types.ErrProvider)
}
