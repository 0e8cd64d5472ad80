package pipeline

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dgallion1/structree/internal/treestore"
)

// IsRetryableStore checks if a tree store error is worth retrying.
func IsRetryableStore(err error) bool {
	var statusErr *treestore.StatusError
	return errors.As(err, &statusErr) && statusErr.Retryable()
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3
