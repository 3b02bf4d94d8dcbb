package bookid_test

import (
	"testing"

	"shelfarr/internal/bookid"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases and strips punctuation", "Frostborn: The Gray Knight!", "frostborn the gray knight"},
		{"strips leading article", "The Name of the Wind", "name of the wind"},
		{"strips indefinite article", "A Memory of Light", "memory of light"},
		{"collapses whitespace", "  Red   Rising  ", "red rising"},
		{"folds diacritics", "Pérez-Reverte's Café", "perez reverte s cafe"},
		{"keeps embedded article", "Beyond the Shadows", "beyond the shadows"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := bookid.NormalizeTitle(tc.input); got != tc.want {
				t.Fatalf("NormalizeTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSplitSubtitle(t *testing.T) {
	cases := []struct {
		input    string
		main     string
		subtitle string
	}{
		{"Frostborn: The Gray Knight", "Frostborn", "The Gray Knight"},
		{"Dune - The Graphic Novel", "Dune", "The Graphic Novel"},
		{"Mistborn", "Mistborn", ""},
		{"First: Second: Third", "First", "Second: Third"},
	}
	for _, tc := range cases {
		main, subtitle := bookid.SplitSubtitle(tc.input)
		if main != tc.main || subtitle != tc.subtitle {
			t.Fatalf("SplitSubtitle(%q) = (%q, %q), want (%q, %q)", tc.input, main, subtitle, tc.main, tc.subtitle)
		}
	}
}

func TestNormalizeAuthor(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"strips initials periods", "J.N. Chaney", "j n chaney"},
		{"strips generational suffix", "Martin Luther King Jr.", "martin luther king"},
		{"strips roman numeral suffix", "Thomas Hardy III", "thomas hardy"},
		{"keeps suffix-only name intact", "Jr", "jr"},
		{"folds diacritics", "José Saramago", "jose saramago"},
		{"collapses whitespace", "  Brandon   Sanderson ", "brandon sanderson"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := bookid.NormalizeAuthor(tc.input); got != tc.want {
				t.Fatalf("NormalizeAuthor(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeSeriesPosition(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"1", "1"},
		{"1.0", "1"},
		{"01", "1"},
		{"#3", "3"},
		{"1.5", "1.5"},
		{" 2 ", "2"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := bookid.NormalizeSeriesPosition(tc.input); got != tc.want {
			t.Fatalf("NormalizeSeriesPosition(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestExtractSeries(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		clean    string
		series   string
		position string
	}{
		{"parenthetical hash", "Frostborn (Frostborn #1)", "Frostborn", "Frostborn", "1"},
		{"parenthetical book", "The Gray Knight (Frostborn, Book 1)", "The Gray Knight", "Frostborn", "1"},
		{"parenthetical vol", "Arc One (Chronicles, Vol 2)", "Arc One", "Chronicles", "2"},
		{"colon book prefix", "Galaxy's Edge: Book 3 - Kill Team", "Kill Team", "Galaxy's Edge", "3"},
		// Trailing patterns consume the whole title; the cleaner falls back to
		// the original rather than returning an empty title.
		{"trailing book", "Renegade Star Book 4", "Renegade Star Book 4", "Renegade Star", "4"},
		{"trailing hash", "Ruins of the Galaxy #2", "Ruins of the Galaxy #2", "Ruins of the Galaxy", "2"},
		{"fractional position", "Novella (Expanse #3.5)", "Novella", "Expanse", "3.5"},
		{"no series", "Project Hail Mary", "Project Hail Mary", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clean, series, position := bookid.ExtractSeries(tc.input)
			if clean != tc.clean || series != tc.series || position != tc.position {
				t.Fatalf("ExtractSeries(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tc.input, clean, series, position, tc.clean, tc.series, tc.position)
			}
		})
	}
}
