// Package openlibrary provides the minimal Open Library search client used
// to gather print candidates for an author. Docs map onto candidate records
// carrying ISBNs, first publish years, and cover URLs.
package openlibrary
