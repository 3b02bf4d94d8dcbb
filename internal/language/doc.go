// Package language provides unified language code normalization.
//
// The metadata providers disagree on how they report language: Google Books
// uses ISO 639-1 ("en"), Open Library uses ISO 639-2 ("eng"), and Audnexus
// uses full words ("english"). All conversions and filter comparisons are
// consolidated here so the provider clients and the configured language
// filter agree regardless of form.
package language
