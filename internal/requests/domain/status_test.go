package domain

import (
	"testing"

	"workshop_backoffice/platform/apperr"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "empty state", input: "empty", want: StatusEmpty},
		{name: "information provided", input: "information_provided", want: StatusInformationProvided},
		{name: "quote generated", input: "quote_generated", want: StatusQuoteGenerated},
		{name: "confirmed", input: "confirmed", want: StatusConfirmed},
		{name: "unknown value", input: "cancelled", wantErr: true},
		{name: "case sensitive", input: "Confirmed", wantErr: true},
		{name: "blank", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%q) expected error, got %q", tt.input, got)
				}
				if apperr.GetKind(err) != apperr.KindValidation {
					t.Errorf("ParseStatus(%q) error kind = %v, want validation", tt.input, apperr.GetKind(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusOrder(t *testing.T) {
	ordered := Statuses()
	if len(ordered) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(ordered))
	}
	for i := 1; i < len(ordered); i++ {
		if !ordered[i-1].Before(ordered[i]) {
			t.Errorf("expected %q to come before %q", ordered[i-1], ordered[i])
		}
		if ordered[i].Before(ordered[i-1]) {
			t.Errorf("did not expect %q to come before %q", ordered[i], ordered[i-1])
		}
	}
	if StatusConfirmed.Before(StatusConfirmed) {
		t.Error("a status must not come before itself")
	}
	if StatusEmpty.Rank() >= StatusConfirmed.Rank() {
		t.Errorf("rank order broken: empty=%d confirmed=%d", StatusEmpty.Rank(), StatusConfirmed.Rank())
	}
}
