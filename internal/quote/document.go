package quote

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"

	"workshop_backoffice/internal/pdf"
	"workshop_backoffice/internal/shared/money"
)

//go:embed templates/quote.html
var quoteTemplateHTML string

var quoteTemplate = template.Must(template.New("quote").Parse(quoteTemplateHTML))

// PriceBreakdown is the computed price block shown on the quote document.
type PriceBreakdown struct {
	TierLabel           string
	PricePerPersonCents *int64
	Participants        int
	TotalExclCents      int64
}

// Renderer populates the quote document template and rasterizes it through
// a per-call rendering engine.
type Renderer struct {
	factory      ConverterFactory
	businessName string
}

// NewRenderer creates the document renderer.
func NewRenderer(factory ConverterFactory, businessName string) *Renderer {
	return &Renderer{factory: factory, businessName: businessName}
}

type quoteDocumentData struct {
	BusinessName       string
	ContactName        string
	Organization       string
	Email              string
	Phone              string
	ActivityType       string
	PreferredDate      string
	AlternativeDate    string
	Participants       int
	LocationPreference string
	Pricing            *pricingView
	DraftText          string
}

type pricingView struct {
	TierLabel     string
	PerPersonLine string
	TotalExcl     string
	TotalIncl     string
}

// Render populates the quote template with request data, the computed price
// breakdown (omitted when pricing is nil), and the drafted text, then
// converts it to PDF. The rendering engine is acquired per call and torn
// down via defer even when conversion fails.
func (r *Renderer) Render(ctx context.Context, fields RequestFields, draftText string, pricing *PriceBreakdown) ([]byte, error) {
	data := quoteDocumentData{
		BusinessName: r.businessName,
		ContactName:  fields.ContactName,
		Organization: fields.Organization,
		Email:        fields.Email,
		Phone:        fields.Phone,
		ActivityType: fields.ActivityType,
		Participants: fields.Participants,
		DraftText:    draftText,
	}
	if fields.PreferredDate != nil {
		data.PreferredDate = fields.PreferredDate.Format(dateLayout)
	}
	if fields.AlternativeDate != nil {
		data.AlternativeDate = fields.AlternativeDate.Format(dateLayout)
	}
	if fields.LocationPreference != nil {
		data.LocationPreference = *fields.LocationPreference
	}
	if pricing != nil {
		view := &pricingView{
			TierLabel: pricing.TierLabel,
			TotalExcl: money.FormatEuro(pricing.TotalExclCents),
			TotalIncl: money.FormatEuro(money.InclTaxCents(pricing.TotalExclCents)),
		}
		if pricing.PricePerPersonCents != nil {
			view.PerPersonLine = fmt.Sprintf("%d deelnemers × %s p.p. excl. btw",
				pricing.Participants, money.FormatEuro(*pricing.PricePerPersonCents))
		}
		data.Pricing = view
	}

	var html bytes.Buffer
	if err := quoteTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("populate quote template: %w", err)
	}

	converter := r.factory()
	defer converter.Close()

	document, err := converter.ConvertHTML(ctx, html.Bytes(), pdf.QuoteDocumentOpts())
	if err != nil {
		return nil, fmt.Errorf("render quote document: %w", err)
	}
	return document, nil
}
