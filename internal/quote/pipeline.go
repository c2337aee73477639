package quote

import (
	"context"
	"time"

	activityservice "workshop_backoffice/internal/activities/service"
	"workshop_backoffice/platform/logger"
)

// PipelineResult is the automation metadata persisted onto the request after
// a successful run.
type PipelineResult struct {
	DraftText        string
	EmailID          string
	DocumentURL      string
	EmailSentAt      time.Time
	QuotedPriceCents *int64
}

// Pipeline orchestrates draft generation, optional document rendering, and
// delivery for a single request. It runs strictly sequentially; the caller
// owns the status write that precedes it and converts pipeline errors into
// warnings.
type Pipeline struct {
	drafter   *Drafter
	renderer  *Renderer
	deliverer *Deliverer
	pricing   PricingResolver
	log       *logger.Logger
	now       func() time.Time
}

// NewPipeline creates the quote pipeline. renderer may be nil for email-only
// mode; the document step is then skipped.
func NewPipeline(drafter *Drafter, renderer *Renderer, deliverer *Deliverer, pricing PricingResolver, log *logger.Logger) *Pipeline {
	return &Pipeline{
		drafter:   drafter,
		renderer:  renderer,
		deliverer: deliverer,
		pricing:   pricing,
		log:       log,
		now:       time.Now,
	}
}

// Run executes the pipeline steps for the request: draft → pricing →
// optional render → deliver. Any step error aborts the run and is returned
// to the caller.
func (p *Pipeline) Run(ctx context.Context, fields RequestFields) (PipelineResult, error) {
	requestID := fields.ID.String()

	draft, err := timedStep(p, requestID, "draft", func() (string, error) {
		return p.drafter.Draft(ctx, fields)
	})
	if err != nil {
		return PipelineResult{}, err
	}

	resolved, err := p.pricing.ResolveTier(ctx, fields.ActivityType, fields.Participants)
	if err != nil {
		return PipelineResult{}, err
	}

	var document []byte
	if p.renderer != nil {
		document, err = timedStep(p, requestID, "render", func() ([]byte, error) {
			return p.renderer.Render(ctx, fields, draft, breakdown(resolved, fields.Participants))
		})
		if err != nil {
			return PipelineResult{}, err
		}
	}

	delivery, err := timedStep(p, requestID, "deliver", func() (DeliveryResult, error) {
		return p.deliverer.Deliver(ctx, fields, draft, document)
	})
	if err != nil {
		return PipelineResult{}, err
	}

	result := PipelineResult{
		DraftText:   draft,
		EmailID:     delivery.EmailID,
		DocumentURL: delivery.DocumentURL,
		EmailSentAt: p.now().UTC(),
	}
	if resolved != nil {
		total := resolved.TotalExclCents(fields.Participants)
		result.QuotedPriceCents = &total
	}
	return result, nil
}

// breakdown maps a resolved tier onto the document's price block. Returns
// nil when no tier matched, which omits the block.
func breakdown(resolved *activityservice.ResolvedTier, participants int) *PriceBreakdown {
	if resolved == nil {
		return nil
	}
	return &PriceBreakdown{
		TierLabel:           resolved.RangeLabel(),
		PricePerPersonCents: resolved.Tier.PricePerPersonCents,
		Participants:        participants,
		TotalExclCents:      resolved.TotalExclCents(participants),
	}
}

// timedStep runs a pipeline step, logging its duration on success and the
// failure on error.
func timedStep[T any](p *Pipeline, requestID, step string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	if err != nil {
		if p.log != nil {
			p.log.PipelineWarning(requestID, step, err)
		}
		return result, err
	}
	if p.log != nil {
		p.log.PipelineStep(requestID, step, float64(time.Since(start).Milliseconds()))
	}
	return result, nil
}
