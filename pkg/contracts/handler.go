package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Worker is a long running background loop, such as a Kafka consumer.
// Start blocks until ctx is cancelled or the loop fails.
type Worker interface {
	Start(ctx context.Context) error
	Close() error
}
