package toplist

import (
	"context"
	"errors"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

// Update is the outcome of one screening run handed to publishers
type Update struct {
	Snapshot  models.ToplistSnapshot
	Annotated []models.AnnotatedSeries
}

// Publisher receives the result of every screening run
type Publisher interface {
	Publish(ctx context.Context, update Update) error
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, update Update) error

// Publish implements Publisher
func (f PublisherFunc) Publish(ctx context.Context, update Update) error {
	return f(ctx, update)
}

// MultiPublisher fans an update out to every publisher.
// All publishers are called even when one fails.
type MultiPublisher []Publisher

// Publish implements Publisher
func (m MultiPublisher) Publish(ctx context.Context, update Update) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, update); err != nil {
			logger.Warn("Failed to publish toplist",
				logger.String("run_id", update.Snapshot.RunID),
				logger.ErrorField(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
