// Package audnexus provides the minimal Audnexus API client used to gather
// audiobook candidates for an author.
//
// It exposes author search plus per-ASIN book detail lookup, the latter being
// the only Audnexus endpoint that reports series membership and runtime.
// Responses map directly onto candidate records so the matching engine can
// score them. Options allow tests to supply custom HTTP clients.
package audnexus
