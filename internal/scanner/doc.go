// Package scanner discovers audiobook files on disk. It walks the configured
// roots, reads embedded tags and runtime via taglib, and falls back to
// filename parsing for untagged files. Every discovered file becomes an
// observed item with filesystem provenance.
package scanner
