package service

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"

	"tracemap/internal/geo"
	"tracemap/internal/middleware"
	"tracemap/internal/models"
	"tracemap/internal/observability"
	"tracemap/internal/repository"
)

// DiscoveryService answers "what was left near me" queries.
type DiscoveryService struct {
	traceRepo repository.TraceRepository
	radiusKm  float64
}

func NewDiscoveryService(traceRepo repository.TraceRepository, radiusKm float64) *DiscoveryService {
	return &DiscoveryService{traceRepo: traceRepo, radiusKm: radiusKm}
}

// FindNearby returns the visible traces within the discovery radius of the
// given point, each annotated with its distance in kilometers and sorted
// nearest first. Traces at equal distance keep their fetch order.
func (s *DiscoveryService) FindNearby(ctx context.Context, lat, lng float64) ([]*models.TraceWithDistance, error) {
	span, ctx := observability.NewSpan(ctx, "discovery.find_nearby")
	defer span.End()
	span.AddAttributes(
		attribute.Float64("discovery.lat", lat),
		attribute.Float64("discovery.lng", lng),
		attribute.Float64("discovery.radius_km", s.radiusKm),
	)

	if err := geo.ValidateCoordinates(lat, lng); err != nil {
		span.SetError(err)
		return nil, err
	}

	middleware.DiscoveryRequests.Inc()

	traces, err := s.traceRepo.ListVisible(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	nearby := lo.FilterMap(traces, func(t *models.Trace, _ int) (*models.TraceWithDistance, bool) {
		d := geo.DistanceKm(lat, lng, t.Latitude, t.Longitude)
		if d > s.radiusKm {
			return nil, false
		}
		return &models.TraceWithDistance{Trace: *t, DistanceKm: d}, true
	})

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	middleware.DiscoveryResultSize.Observe(float64(len(nearby)))
	span.AddAttributes(attribute.Int("discovery.result_count", len(nearby)))
	return nearby, nil
}
