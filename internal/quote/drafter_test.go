package quote

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeCompleter struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	return f.response, f.err
}

func strPtr(v string) *string { return &v }

func sampleFields() RequestFields {
	preferred := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return RequestFields{
		ID:                  uuid.New(),
		ContactName:         "Jan de Vries",
		Email:               "jan@example.com",
		Phone:               "0612345678",
		Organization:        "De Vries BV",
		ActivityType:        "kookworkshop",
		PreferredDate:       &preferred,
		Participants:        15,
		DietaryRequirements: strPtr("2 vegetarisch"),
	}
}

func TestFormatFieldBlock(t *testing.T) {
	block := FormatFieldBlock(sampleFields())

	wantLines := []string{
		"Naam: Jan de Vries",
		"Organisatie: De Vries BV",
		"E-mail: jan@example.com",
		"Telefoon: +31612345678",
		"Activiteit: kookworkshop",
		"Gewenste datum: 01-06-2025",
		"Aantal deelnemers: 15",
		"Dieetwensen: 2 vegetarisch",
	}
	for _, line := range wantLines {
		if !strings.Contains(block, line) {
			t.Fatalf("field block missing %q, got:\n%s", line, block)
		}
	}
	if strings.Contains(block, "Locatievoorkeur") {
		t.Fatalf("absent fields must be omitted, got:\n%s", block)
	}
}

func TestFormatFieldBlockOrderIsFixed(t *testing.T) {
	block := FormatFieldBlock(sampleFields())
	nameIdx := strings.Index(block, "Naam:")
	activityIdx := strings.Index(block, "Activiteit:")
	dietIdx := strings.Index(block, "Dieetwensen:")
	if !(nameIdx < activityIdx && activityIdx < dietIdx) {
		t.Fatalf("field order not fixed, got:\n%s", block)
	}
}

func TestDraftReturnsTrimmedCompletion(t *testing.T) {
	completer := &fakeCompleter{response: "\nBeste Jan,\n\nBedankt voor uw aanvraag.\n"}
	drafter := NewDrafter(newAssemblerFixture(t), completer)

	draft, err := drafter.Draft(context.Background(), sampleFields())
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if draft != "Beste Jan,\n\nBedankt voor uw aanvraag." {
		t.Fatalf("unexpected draft: %q", draft)
	}
	if !strings.Contains(completer.lastSystem, "Prijzen voor kookworkshop") {
		t.Fatalf("system prompt missing assembled pricing context:\n%s", completer.lastSystem)
	}
	if !strings.Contains(completer.lastUser, "Naam: Jan de Vries") {
		t.Fatalf("user prompt missing field block:\n%s", completer.lastUser)
	}
}

func TestDraftFailsOnEmptyCompletion(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
	}{
		{"empty response", &fakeCompleter{response: ""}},
		{"whitespace response", &fakeCompleter{response: "  \n\t "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafter := NewDrafter(newAssemblerFixture(t), tt.completer)
			_, err := drafter.Draft(context.Background(), sampleFields())
			if !errors.Is(err, ErrDraftFailed) {
				t.Fatalf("expected ErrDraftFailed, got %v", err)
			}
		})
	}
}

func TestDraftWrapsCompleterError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model unavailable")}
	drafter := NewDrafter(newAssemblerFixture(t), completer)

	_, err := drafter.Draft(context.Background(), sampleFields())
	if err == nil {
		t.Fatal("expected error from failing completer")
	}
}
