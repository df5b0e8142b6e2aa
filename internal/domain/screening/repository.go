package screening

import "context"

// Repository supplies the full screening record set for one aggregation
// pass.  Implementations load from CSV files, Postgres, or object storage;
// all of them return an immutable snapshot the caller may not mutate.
type Repository interface {
	// FetchAll returns every screening record in the source.  A malformed
	// source yields a load error (pkg/errors.IsLoadError) and no records.
	FetchAll(ctx context.Context) ([]Record, error)

	// Fingerprint identifies the current content of the source (e.g. a
	// content hash or versioned object key).  Two calls returning the
	// same fingerprint are guaranteed to see identical record sets, which
	// makes it the memoization key for the snapshot cache.
	Fingerprint(ctx context.Context) (string, error)
}
