package bookid_test

import (
	"testing"

	"shelfarr/internal/bookid"
)

func TestNormalizeISBN(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"978-0-306-40615-7", "9780306406157"},
		{"0 306 40615 2", "0306406152"},
		{"080442957x", "080442957X"},
		{"12345", ""},
		{"not-an-isbn", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := bookid.NormalizeISBN(tc.input); got != tc.want {
			t.Fatalf("NormalizeISBN(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCanonicalISBN13(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		// 0-306-40615-2 is the canonical example pair for 978-0-306-40615-7.
		{"converts isbn10", "0-306-40615-2", "9780306406157"},
		{"passes through isbn13", "9780306406157", "9780306406157"},
		{"rejects garbage", "garbage", ""},
		{"rejects isbn10 with X body", "03064061X2", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := bookid.CanonicalISBN13(tc.input); got != tc.want {
				t.Fatalf("CanonicalISBN13(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
