// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the LAMF REST client and the in-process cache.
package port

import (
	"context"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// DashboardFetcher retrieves the aggregate dashboard counters.
type DashboardFetcher interface {
	GetDashboard(ctx context.Context) (*domain.DashboardSummary, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Pop(key string) (T, bool)
	Update(key string, fn func(current T, found bool) T) T
	Delete(key string)
}
