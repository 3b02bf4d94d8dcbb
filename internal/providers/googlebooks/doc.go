// Package googlebooks provides the minimal Google Books volumes client used
// to gather print and ebook candidates for an author. Volumes map onto
// candidate records carrying ISBN identifiers, subtitles, and descriptions.
package googlebooks
