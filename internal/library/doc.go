// Package library integrates with an Audiobookshelf server. The client
// authenticates with a bearer token and exposes library listing, per-library
// search, and full item walks; results surface as observed items with
// library-manager provenance so the matching engine can score them.
package library
