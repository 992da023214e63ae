package srv

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/tuskmem/pkg/log"
)

// Service is a long-running component started next to the session.
type Service interface {
	// Start blocks until the service stops.
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices runs each service in its own goroutine. A service that
// fails to start takes the process down with it.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", service)
			}
		}(service)
	}
}

// ShutdownServices stops services in reverse start order once ctx is done.
func ShutdownServices(ctx context.Context, services []Service) error {
	<-ctx.Done()

	var errs []error
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
			errs = append(errs, fmt.Errorf("%T: %w", services[i], err))
		}
	}
	return errors.Join(errs...)
}
