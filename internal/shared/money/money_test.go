package money

import "testing"

func TestInclTaxCents(t *testing.T) {
	tests := []struct {
		name string
		excl int64
		want int64
	}{
		{"forty-five euro tier price", 4500, 5445},
		{"fifty euro tier price", 5000, 6050},
		{"zero", 0, 0},
		{"rounds to nearest cent", 207, 250},
		{"one cent", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InclTaxCents(tt.excl); got != tt.want {
				t.Fatalf("InclTaxCents(%d) = %d, want %d", tt.excl, got, tt.want)
			}
		})
	}
}

func TestInclTaxCentsIsStable(t *testing.T) {
	first := InclTaxCents(4500)
	for i := 0; i < 100; i++ {
		if got := InclTaxCents(4500); got != first {
			t.Fatalf("InclTaxCents not deterministic: got %d then %d", first, got)
		}
	}
}

func TestFormatEuro(t *testing.T) {
	if got := FormatEuro(4500); got != "€ 45" {
		t.Fatalf("FormatEuro(4500) = %q, want %q", got, "€ 45")
	}
	if got := FormatEuro(5445); got != "€ 54.45" {
		t.Fatalf("FormatEuro(5445) = %q, want %q", got, "€ 54.45")
	}
}

func TestFormatEuroCompact(t *testing.T) {
	if got := FormatEuroCompact(250); got != "€2.50" {
		t.Fatalf("FormatEuroCompact(250) = %q, want %q", got, "€2.50")
	}
	if got := FormatEuroCompact(400); got != "€4.00" {
		t.Fatalf("FormatEuroCompact(400) = %q, want %q", got, "€4.00")
	}
}
