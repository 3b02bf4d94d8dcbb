package reconcile

import (
	"context"
	"fmt"

	"shelfarr/internal/authorid"
)

// FindDuplicateAuthors loads the catalog's identities and book refs and runs
// duplicate detection over them.
func (s *Service) FindDuplicateAuthors(ctx context.Context) ([]authorid.CandidatePair, error) {
	identities, err := s.store.ListIdentities(ctx)
	if err != nil {
		return nil, err
	}
	refs, err := s.store.ListBookRefs(ctx)
	if err != nil {
		return nil, err
	}
	return authorid.FindDuplicates(identities, refs), nil
}

// MergeAuthors plans and commits the merge of duplicate into primary. The
// plan aborts on identifier conflicts before anything is written; committing
// an already-performed merge is a no-op.
func (s *Service) MergeAuthors(ctx context.Context, primaryID, duplicateID string) (authorid.MergeSpec, error) {
	primary, err := s.store.GetAuthor(ctx, primaryID)
	if err != nil {
		return authorid.MergeSpec{}, err
	}
	if primary == nil {
		return authorid.MergeSpec{}, fmt.Errorf("unknown primary author %s", primaryID)
	}
	duplicate, err := s.store.GetAuthor(ctx, duplicateID)
	if err != nil {
		return authorid.MergeSpec{}, err
	}
	if duplicate == nil {
		return authorid.MergeSpec{}, fmt.Errorf("unknown duplicate author %s", duplicateID)
	}

	refs, err := s.store.ListBookRefs(ctx)
	if err != nil {
		return authorid.MergeSpec{}, err
	}
	spec, err := authorid.PlanMerge(primary.Identity(), duplicate.Identity(), refs)
	if err != nil {
		return authorid.MergeSpec{}, err
	}
	if err := s.store.ApplyAuthorMerge(ctx, spec); err != nil {
		return authorid.MergeSpec{}, err
	}
	return spec, nil
}
