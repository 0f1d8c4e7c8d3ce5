package sources

import "testing"

func TestSplitLocation(t *testing.T) {
	cases := []struct {
		raw     string
		city    string
		country string
	}{
		{"Amsterdam, Netherlands", "Amsterdam", "Netherlands"},
		{"Amsterdam", "Amsterdam", "Netherlands"},
		{"Rotterdam, NL", "Rotterdam", "Netherlands"},
		{"Remote - Netherlands", "", "Netherlands"},
		{"Remote", "", ""},
		{"The Hague, Netherlands", "Den Haag", "Netherlands"},
		{"Den Bosch, Netherlands", "'s-Hertogenbosch", "Netherlands"},
		{"Utrecht Office", "Utrecht", "Netherlands"},
		{"Eindhoven (Hybrid)", "Eindhoven", "Netherlands"},
		{"Berlin, Germany", "Berlin", ""},
		{"", "", ""},
		{"Hybrid", "", ""},
	}
	for _, tc := range cases {
		city, country := SplitLocation(tc.raw)
		if city != tc.city || country != tc.country {
			t.Errorf("SplitLocation(%q) = (%q, %q), want (%q, %q)",
				tc.raw, city, country, tc.city, tc.country)
		}
	}
}

func TestSplitLocation_MultiCity(t *testing.T) {
	city, _ := SplitLocation("Amsterdam / Rotterdam")
	if city != "Amsterdam" {
		t.Fatalf("expected first city, got %q", city)
	}
}

func TestNormalizeCity_SlashException(t *testing.T) {
	if got := normalizeCity("Capelle a/d IJssel"); got != "Capelle aan den IJssel" {
		t.Fatalf("expected alias expansion, got %q", got)
	}
}

func TestNormalizeCity_USPrefixes(t *testing.T) {
	if got := normalizeCity("US > Remote"); got != "" {
		t.Fatalf("expected empty city, got %q", got)
	}
	if got := normalizeCity("US-Remote"); got != "" {
		t.Fatalf("expected empty city, got %q", got)
	}
}
