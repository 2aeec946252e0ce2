package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-widget/models"
)

func TestFromForm(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lon     string
		errText string
		want    models.Coordinates
		denied  bool
	}{
		{name: "coordinates", lat: "43.25", lon: "-76.9", want: models.Coordinates{Lat: 43.25, Lon: -76.9}},
		{name: "browser error", lat: "1", lon: "2", errText: "User denied Geolocation", denied: true},
		{name: "missing", denied: true},
		{name: "garbage", lat: "north", lon: "1", denied: true},
		{name: "out of range", lat: "91", lon: "0", denied: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromForm(tt.lat, tt.lon, tt.errText).Locate(context.Background())
			if tt.denied {
				assert.ErrorIs(t, err, ErrDenied)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fixed{Lat: 1, Lon: 1}.Locate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
