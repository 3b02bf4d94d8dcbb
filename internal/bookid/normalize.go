package bookid

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalization is comparison-only: display forms keep their original casing,
// punctuation, and suffixes. Every function here is pure and deterministic.

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var generationalSuffixes = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
}

var leadingArticles = []string{"the ", "a ", "an "}

func foldDiacritics(text string) string {
	folded, _, err := transform.String(diacriticFolder, text)
	if err != nil {
		return text
	}
	return folded
}

// stripPunctuation replaces every rune that is not a letter, digit, or space
// with a space so token boundaries survive.
func stripPunctuation(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SplitSubtitle separates a title into its main part and subtitle. The first
// colon or spaced dash starts the subtitle; titles without a separator return
// an empty subtitle.
func SplitSubtitle(title string) (main, subtitle string) {
	for _, sep := range []string{":", " - "} {
		if idx := strings.Index(title, sep); idx >= 0 {
			return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+len(sep):])
		}
	}
	return strings.TrimSpace(title), ""
}

// NormalizeTitle produces the comparison key for a title or subtitle:
// lower-cased, diacritics folded, punctuation stripped, whitespace collapsed,
// and a leading article removed.
func NormalizeTitle(text string) string {
	key := strings.ToLower(foldDiacritics(text))
	key = collapseWhitespace(stripPunctuation(key))
	for _, article := range leadingArticles {
		if strings.HasPrefix(key, article) {
			key = key[len(article):]
			break
		}
	}
	return key
}

// NormalizeAuthor produces the comparison key for an author name: lower-cased,
// diacritics folded, periods and other punctuation stripped, generational
// suffixes removed, whitespace collapsed. "J.R.R. Tolkien" and "jrr tolkien"
// normalize differently ("j r r" vs "jrr"); component-level matching in
// authorNameScore handles the initials case.
func NormalizeAuthor(name string) string {
	key := strings.ToLower(foldDiacritics(name))
	key = collapseWhitespace(stripPunctuation(key))
	parts := strings.Fields(key)
	for len(parts) > 1 {
		if _, ok := generationalSuffixes[parts[len(parts)-1]]; !ok {
			break
		}
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}

// NormalizeSeriesPosition canonicalizes series positions so "1", "1.0", and
// " 1 " compare equal while "1.5" stays distinct.
func NormalizeSeriesPosition(position string) string {
	pos := strings.TrimSpace(position)
	pos = strings.TrimPrefix(pos, "#")
	if dot := strings.Index(pos, "."); dot >= 0 {
		frac := strings.TrimRight(pos[dot+1:], "0")
		if frac == "" {
			pos = pos[:dot]
		} else {
			pos = pos[:dot+1] + frac
		}
	}
	for len(pos) > 1 && pos[0] == '0' && pos[1] >= '0' && pos[1] <= '9' {
		pos = pos[1:] // "01" == "1"
	}
	return pos
}

// seriesPatterns match the formats providers embed series membership in, from
// most to least specific. Each pattern captures (series, position).
var seriesPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(([^)]+?)\s*#(\d+(?:\.\d+)?)\)`),
	regexp.MustCompile(`(?i)\(([^)]+?),?\s*Book\s+(\d+(?:\.\d+)?)\)`),
	regexp.MustCompile(`(?i)\(([^)]+?),?\s*Vol\.?\s+(\d+(?:\.\d+)?)\)`),
	regexp.MustCompile(`(?i)\(([^)]+?)\s*-\s*Book\s+(\d+(?:\.\d+)?)\)`),
	regexp.MustCompile(`(?i)^(.+?):\s*Book\s+(\d+(?:\.\d+)?)\s*[-:]`),
	regexp.MustCompile(`(?i)^(.+?)\s*#(\d+(?:\.\d+)?)\s*[-:]`),
	regexp.MustCompile(`(?i)(.+?)\s+Book\s+(\d+(?:\.\d+)?)$`),
	regexp.MustCompile(`(?i)(.+?)\s+#(\d+(?:\.\d+)?)$`),
}

// ExtractSeries pulls an embedded series name and position out of a raw
// provider title, returning the cleaned title alongside them. Titles without
// a recognizable pattern come back unchanged with empty series fields.
func ExtractSeries(title string) (clean, series, position string) {
	for _, pattern := range seriesPatterns {
		match := pattern.FindStringSubmatch(title)
		if match == nil {
			continue
		}
		series = strings.TrimSpace(match[1])
		position = match[2]
		clean = strings.TrimSpace(pattern.ReplaceAllString(title, ""))
		clean = strings.Trim(clean, "-: ")
		if len(clean) < 3 {
			clean = title
		}
		return clean, series, position
	}
	return title, "", ""
}
