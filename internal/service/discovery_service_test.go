package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracemap/internal/models"
)

const (
	seoulLat = 37.5665
	seoulLng = 126.9780
	busanLat = 35.1796
	busanLng = 129.0756
)

func TestDiscoveryService_FindNearby(t *testing.T) {
	repo := newStubTraceRepo()
	svc := NewDiscoveryService(repo, 500)
	ctx := context.Background()

	repo.traces["a"] = &models.Trace{ID: "a", UserID: "u1", Title: "Seoul", Latitude: seoulLat, Longitude: seoulLng}
	repo.traces["b"] = &models.Trace{ID: "b", UserID: "u1", Title: "Busan", Latitude: busanLat, Longitude: busanLng}
	repo.traces["c"] = &models.Trace{ID: "c", UserID: "u1", Title: "Paris", Latitude: 48.8566, Longitude: 2.3522}

	nearby, err := svc.FindNearby(ctx, seoulLat, seoulLng)
	require.NoError(t, err)
	require.Len(t, nearby, 2)

	assert.Equal(t, "Seoul", nearby[0].Title)
	assert.InDelta(t, 0.0, nearby[0].DistanceKm, 0.001)
	assert.Equal(t, "Busan", nearby[1].Title)
	assert.InDelta(t, 325.0, nearby[1].DistanceKm, 5.0)
}

func TestDiscoveryService_FindNearby_ExcludesHidden(t *testing.T) {
	repo := newStubTraceRepo()
	svc := NewDiscoveryService(repo, 500)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	repo.traces["deleted"] = &models.Trace{ID: "deleted", Title: "Gone", Latitude: seoulLat, Longitude: seoulLng, IsDeleted: true}
	repo.traces["expiring"] = &models.Trace{ID: "expiring", Title: "Ephemeral", Latitude: seoulLat, Longitude: seoulLng, ExpiresAt: &expires}
	repo.traces["kept"] = &models.Trace{ID: "kept", Title: "Here", Latitude: seoulLat, Longitude: seoulLng}

	nearby, err := svc.FindNearby(ctx, seoulLat, seoulLng)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "Here", nearby[0].Title)
}

func TestDiscoveryService_FindNearby_RadiusBoundary(t *testing.T) {
	repo := newStubTraceRepo()
	ctx := context.Background()

	repo.traces["b"] = &models.Trace{ID: "b", Title: "Busan", Latitude: busanLat, Longitude: busanLng}

	// Busan is about 325 km from Seoul: inside a 400 km radius, outside 300.
	wide := NewDiscoveryService(repo, 400)
	nearby, err := wide.FindNearby(ctx, seoulLat, seoulLng)
	require.NoError(t, err)
	assert.Len(t, nearby, 1)

	narrow := NewDiscoveryService(repo, 300)
	nearby, err = narrow.FindNearby(ctx, seoulLat, seoulLng)
	require.NoError(t, err)
	assert.Empty(t, nearby)
}

func TestDiscoveryService_FindNearby_InvalidCoordinates(t *testing.T) {
	svc := NewDiscoveryService(newStubTraceRepo(), 500)

	for _, coords := range [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}} {
		_, err := svc.FindNearby(context.Background(), coords[0], coords[1])
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	}
}

func TestDiscoveryService_FindNearby_SortsByDistance(t *testing.T) {
	repo := newStubTraceRepo()
	svc := NewDiscoveryService(repo, 500)

	repo.traces["far"] = &models.Trace{ID: "far", Title: "Incheon", Latitude: 37.4563, Longitude: 126.7052}
	repo.traces["near"] = &models.Trace{ID: "near", Title: "City Hall", Latitude: 37.5663, Longitude: 126.9779}

	nearby, err := svc.FindNearby(context.Background(), seoulLat, seoulLng)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "City Hall", nearby[0].Title)
	assert.Equal(t, "Incheon", nearby[1].Title)
	assert.Less(t, nearby[0].DistanceKm, nearby[1].DistanceKm)
}
