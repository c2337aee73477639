// Package quote implements the quote automation pipeline: context assembly,
// draft generation, document rendering, and delivery.
package quote

import (
	"context"

	activityservice "workshop_backoffice/internal/activities/service"
	"workshop_backoffice/internal/pdf"
)

// Completer is the language-model completion endpoint.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// HTMLConverter renders HTML into a binary document.
type HTMLConverter interface {
	ConvertHTML(ctx context.Context, indexHTML []byte, opts pdf.ConvertOpts) ([]byte, error)
	Close()
}

// ConverterFactory creates a fresh converter per rendering call. The
// rendering engine is expensive, so it is scoped per call and torn down
// afterwards rather than pooled.
type ConverterFactory func() HTMLConverter

// PricingResolver resolves the applicable pricing tier for an activity and
// participant count. A nil result means "omit pricing".
type PricingResolver interface {
	ResolveTier(ctx context.Context, category string, participants int) (*activityservice.ResolvedTier, error)
}
