package schema

import (
	"errors"
	"fmt"
)

// External-call failures. These propagate to the caller as request-level
// failures; the pipeline never substitutes a degraded answer silently.
var (
	ErrEmbeddingUnavailable  = errors.New("embedding provider unavailable")
	ErrGenerationUnavailable = errors.New("generation provider unavailable")
)

// DimensionMismatchError is a configuration error: the query vector does not
// match the dimensionality of the targeted namespace.
type DimensionMismatchError struct {
	Namespace string
	Want      int
	Got       int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch for namespace %s: store has %d, query has %d", e.Namespace, e.Want, e.Got)
}
