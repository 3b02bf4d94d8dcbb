package bookid

import "strings"

// NormalizeISBN strips separators and upper-cases the ISBN-10 check
// character. Returns "" when the input cannot be an ISBN of either length.
func NormalizeISBN(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteByte('X')
		case r == '-' || r == ' ':
			// separator
		default:
			return ""
		}
	}
	isbn := b.String()
	if len(isbn) != 10 && len(isbn) != 13 {
		return ""
	}
	return isbn
}

// CanonicalISBN13 reduces any valid-looking ISBN to its 13-digit form so
// ISBN-10 and ISBN-13 renditions of the same book compare equal.
func CanonicalISBN13(raw string) string {
	isbn := NormalizeISBN(raw)
	switch len(isbn) {
	case 13:
		return isbn
	case 10:
		return isbn10To13(isbn)
	default:
		return ""
	}
}

// isbn10To13 converts by prefixing 978, dropping the ISBN-10 check character,
// and computing the EAN-13 check digit.
func isbn10To13(isbn10 string) string {
	body := "978" + isbn10[:9]
	sum := 0
	for i, r := range body {
		digit := int(r - '0')
		if digit < 0 || digit > 9 {
			return ""
		}
		if i%2 == 0 {
			sum += digit
		} else {
			sum += 3 * digit
		}
	}
	check := (10 - sum%10) % 10
	return body + string(rune('0'+check))
}

// isbnSet collects the canonical 13-digit forms present on one side of a pair.
func isbnSet(isbn10, isbn13 string) map[string]struct{} {
	set := make(map[string]struct{}, 2)
	if canonical := CanonicalISBN13(isbn10); canonical != "" {
		set[canonical] = struct{}{}
	}
	if canonical := CanonicalISBN13(isbn13); canonical != "" {
		set[canonical] = struct{}{}
	}
	return set
}

// isbnMatch reports whether the two sides share any ISBN after 10/13
// cross-checking.
func isbnMatch(a ObservedItem, b CandidateRecord) bool {
	left := isbnSet(a.ISBN10, a.ISBN13)
	if len(left) == 0 {
		return false
	}
	for canonical := range isbnSet(b.ISBN10, b.ISBN13) {
		if _, ok := left[canonical]; ok {
			return true
		}
	}
	return false
}
