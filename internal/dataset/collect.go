package dataset

import (
	"context"

	"go.uber.org/zap"
)

const (
	progressEvery = 10
	failureStreak = 10
)

// collect visits ids in order, strictly one at a time, invoking build per
// id. Failures are logged with the entity id and skipped; the batch always
// runs to completion. Pacing between requests is enforced inside the fetch
// client, so this loop stays free of timing concerns. The only error
// returned is context cancellation.
func collect[T any](ctx context.Context, name string, ids []int, build func(context.Context, int) (T, error)) ([]T, error) {
	log := zap.L().With(zap.String("dataset", name))

	out := make([]T, 0, len(ids))
	consecutive := 0

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		rec, err := build(ctx, id)
		if err != nil {
			consecutive++
			log.Warn("entity skipped",
				zap.Int("id", id),
				zap.Error(err),
			)
			if consecutive == failureStreak {
				// Likely an upstream outage rather than sparse bad pages.
				// The batch still runs to completion so a partial outage
				// does not lose the reachable entities.
				log.Error("consecutive failure streak",
					zap.Int("count", consecutive),
				)
			}
			continue
		}
		consecutive = 0
		out = append(out, rec)

		if (i+1)%progressEvery == 0 || i+1 == len(ids) {
			log.Info("progress",
				zap.Int("visited", i+1),
				zap.Int("total", len(ids)),
				zap.Int("collected", len(out)),
			)
		}
	}

	return out, nil
}
