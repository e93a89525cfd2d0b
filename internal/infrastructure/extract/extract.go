// Package extract defines the contract every upstream patent source client
// implements. Concrete clients live in the subpackages (lens, epo); the
// pipeline service only ever sees this interface.
package extract

import (
	"context"

	"github.com/Hamaduzi123/ip/pkg/types/patent"
)

// Extractor harvests raw patent records from one upstream source. Extract
// returns records in the source's own field conventions; normalization and
// deduplication happen downstream.
type Extractor interface {
	// Source identifies the upstream system, e.g. patent.SourceLens.
	Source() patent.Source

	// Extract searches the source and returns every matching record. A
	// partial result with a nil error is valid: sources stop paginating on
	// transient upstream failures and return what they collected. A non-nil
	// error means nothing usable was fetched.
	Extract(ctx context.Context) ([]patent.Record, error)
}
