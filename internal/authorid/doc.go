// Package authorid finds author identities that likely denote the same real
// person and plans their non-destructive consolidation.
//
// Detection pairs every two active identities and qualifies a pair when the
// display names reach at least a partial similarity match or the two
// identities own books sharing an ASIN or ISBN. Pairs are evidence for a
// human decision; nothing here merges automatically.
//
// A merge is expressed as a MergeSpec the catalog store commits in one
// transaction: book edges re-point from the duplicate to the primary,
// provider id links union onto the primary, and the duplicate goes inactive
// but is never deleted. Planning an already-merged pair yields a no-op spec,
// and a merge that would collide two books with different present identifiers
// fails outright instead of guessing.
package authorid
