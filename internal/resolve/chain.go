package resolve

import (
	"context"

	"github.com/rollgate/rollgate/internal/metrics"
)

// step is one source probe in a resolution chain. A nil result with a nil
// error means the source does not know the identifier and the chain may fall
// through; an error stops the chain immediately. Errors are never masked by
// later sources.
type step[T any] struct {
	source string
	probe  func(ctx context.Context) (*T, error)
}

// firstHit runs the probes in precedence order and short-circuits on the
// first hit or the first error.
func firstHit[T any](ctx context.Context, steps []step[T]) (*T, error) {
	for _, s := range steps {
		res, err := s.probe(ctx)
		if err != nil {
			metrics.LookupsTotal.WithLabelValues(s.source, "error").Inc()
			return nil, err
		}
		if res != nil {
			metrics.LookupsTotal.WithLabelValues(s.source, "found").Inc()
			return res, nil
		}
		metrics.LookupsTotal.WithLabelValues(s.source, "not_found").Inc()
	}
	return nil, nil
}
