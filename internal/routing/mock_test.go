package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitamove/kitamove/internal/geo"
)

func TestStraightLineProvider_EndpointsExact(t *testing.T) {
	provider := NewStraightLineProvider(StraightLineConfig{})

	pairs := [][2]geo.Coordinate{
		{kualaLumpur, penang},
		{penang, kualaLumpur},
		{{Lat: 0.1, Lng: 0.2}, {Lat: 0.3, Lng: 0.7}},
		{{Lat: -33.8688, Lng: 151.2093}, {Lat: 51.5074, Lng: -0.1278}},
	}

	for _, p := range pairs {
		route, err := provider.GetRoute(context.Background(), RouteRequest{Origin: p[0], Destination: p[1]})
		require.NoError(t, err)
		assert.Equal(t, p[0], route.Coordinates[0], "first point must be the origin")
		assert.Equal(t, p[1], route.Coordinates[len(route.Coordinates)-1], "last point must be the destination")
	}
}

func TestStraightLineProvider_PointsAndJitter(t *testing.T) {
	tests := []struct {
		name   string
		rand   float64
		offset float64
	}{
		{name: "low end", rand: 0, offset: -0.0015},
		{name: "midpoint", rand: 0.5, offset: 0},
		{name: "high end", rand: 0.999999, offset: 0.0015},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewStraightLineProvider(StraightLineConfig{
				Rand: func() float64 { return tt.rand },
			})

			route, err := provider.GetRoute(context.Background(), RouteRequest{Origin: kualaLumpur, Destination: penang})
			require.NoError(t, err)
			require.Len(t, route.Coordinates, 11)

			for i := 1; i < 10; i++ {
				ratio := float64(i) / 10
				wantLat := kualaLumpur.Lat + ratio*(penang.Lat-kualaLumpur.Lat)
				wantLng := kualaLumpur.Lng + ratio*(penang.Lng-kualaLumpur.Lng)
				got := route.Coordinates[i]

				assert.InDelta(t, wantLng, got.Lng, 1e-12, "point %d longitude", i)
				assert.InDelta(t, tt.offset, got.Lat-wantLat, 1e-6, "point %d latitude offset", i)
			}
		})
	}
}

func TestStraightLineProvider_JitterBounded(t *testing.T) {
	provider := NewStraightLineProvider(StraightLineConfig{})

	for n := 0; n < 50; n++ {
		route, err := provider.GetRoute(context.Background(), RouteRequest{Origin: kualaLumpur, Destination: penang})
		require.NoError(t, err)
		for i := 1; i < 10; i++ {
			ratio := float64(i) / 10
			base := kualaLumpur.Lat + ratio*(penang.Lat-kualaLumpur.Lat)
			require.InDelta(t, base, route.Coordinates[i].Lat, 0.0015+1e-12, "point %d jitter exceeds 0.0015", i)
		}
	}
}

func TestStraightLineProvider_DistanceAndDuration(t *testing.T) {
	provider := NewStraightLineProvider(StraightLineConfig{})

	route, err := provider.GetRoute(context.Background(), RouteRequest{Origin: kualaLumpur, Destination: penang})
	require.NoError(t, err)

	km := geo.HaversineKm(kualaLumpur, penang)
	assert.Equal(t, km*1000, route.DistanceMeters)
	assert.Equal(t, km*60, route.DurationSeconds)
	assert.Equal(t, KindStraightLine, route.Kind)
	assert.Equal(t, StraightLineProviderName, provider.Name())
}

func TestStraightLineProvider_CustomSegments(t *testing.T) {
	provider := NewStraightLineProvider(StraightLineConfig{Segments: 4})

	route, err := provider.GetRoute(context.Background(), RouteRequest{Origin: kualaLumpur, Destination: penang})
	require.NoError(t, err)
	assert.Len(t, route.Coordinates, 5)
}
