package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workshop_backoffice/platform/apperr"
	"workshop_backoffice/platform/phone"
)

// ErrDraftFailed indicates the completion endpoint returned no usable text.
var ErrDraftFailed = apperr.Internal("draft generation failed")

const dateLayout = "02-01-2006"

// Drafter produces the quote email draft via the completion endpoint.
type Drafter struct {
	assembler *Assembler
	completer Completer
}

// NewDrafter creates the draft generator.
func NewDrafter(assembler *Assembler, completer Completer) *Drafter {
	return &Drafter{assembler: assembler, completer: completer}
}

// Draft assembles the system context and sends the request's field block to
// the completion endpoint. Returns ErrDraftFailed when no usable text comes
// back.
func (d *Drafter) Draft(ctx context.Context, fields RequestFields) (string, error) {
	city := ""
	if fields.LocationPreference != nil {
		city = strings.TrimSpace(*fields.LocationPreference)
	}

	systemContext, err := d.assembler.Build(ctx, fields.ActivityType, fields.Participants, city)
	if err != nil {
		return "", err
	}

	draft, err := d.completer.Complete(ctx, systemContext, FormatFieldBlock(fields))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "draft generation failed", err)
	}
	if strings.TrimSpace(draft) == "" {
		return "", ErrDraftFailed
	}
	return strings.TrimSpace(draft), nil
}

// FormatFieldBlock renders the request's fields as a fixed-order, labeled
// plain-text block. Absent fields are omitted; the phone number is
// normalized to E.164.
func FormatFieldBlock(fields RequestFields) string {
	var b strings.Builder

	writeLine := func(label, value string) {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", label, trimmed)
	}
	writeDate := func(label string, value *time.Time) {
		if value == nil {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value.Format(dateLayout))
	}
	writeOptional := func(label string, value *string) {
		if value == nil {
			return
		}
		writeLine(label, *value)
	}

	writeLine("Naam", fields.ContactName)
	writeLine("Organisatie", fields.Organization)
	writeLine("E-mail", fields.Email)
	writeLine("Telefoon", phone.NormalizeE164(fields.Phone))
	writeLine("Activiteit", fields.ActivityType)
	writeDate("Gewenste datum", fields.PreferredDate)
	writeDate("Alternatieve datum", fields.AlternativeDate)
	if fields.Participants > 0 {
		fmt.Fprintf(&b, "Aantal deelnemers: %d\n", fields.Participants)
	}
	writeOptional("Locatievoorkeur", fields.LocationPreference)
	writeOptional("Dieetwensen", fields.DietaryRequirements)
	writeOptional("Toegankelijkheid", fields.AccessibilityNotes)
	writeOptional("Bijzondere verzoeken", fields.SpecialRequests)

	return strings.TrimRight(b.String(), "\n")
}
