package aggregator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-widget/models"
)

func sample(day, hour int, temp float64, icon string) models.ForecastSample {
	return models.ForecastSample{
		Time:        time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC),
		Temperature: temp,
		Icon:        icon,
		Description: icon + " desc",
	}
}

func TestSingleDayPicksNoon(t *testing.T) {
	got := DailySummaries([]models.ForecastSample{
		sample(10, 0, 10, "01n"),
		sample(10, 12, 20, "02d"),
		sample(10, 21, 15, "03n"),
	}, time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, models.DailySummary{
		Date:        "2025-03-10",
		TempMin:     10,
		TempMax:     20,
		Icon:        "02d",
		Description: "02d desc",
	}, got[0])
}

func TestSingleSampleDay(t *testing.T) {
	got := DailySummaries([]models.ForecastSample{sample(10, 21, -3.5, "13n")}, time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, -3.5, got[0].TempMin)
	assert.Equal(t, -3.5, got[0].TempMax)
	assert.Equal(t, "13n", got[0].Icon)
}

func TestTieKeepsEarliest(t *testing.T) {
	got := DailySummaries([]models.ForecastSample{
		sample(10, 9, 1, "early"),
		sample(10, 15, 2, "late"),
	}, time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, "early", got[0].Icon)
}

func TestCapsAtFiveDaysInFirstSeenOrder(t *testing.T) {
	var samples []models.ForecastSample
	for day := 10; day <= 16; day++ {
		for hour := 0; hour < 24; hour += 3 {
			samples = append(samples, sample(day, hour, float64(day), "x"))
		}
	}

	got := DailySummaries(samples, time.UTC)
	require.Len(t, got, MaxDays)
	for i, d := range got {
		assert.Equal(t, time.Date(2025, time.March, 10+i, 0, 0, 0, 0, time.UTC).Format(time.DateOnly), d.Date)
	}
}

func TestDaysNotSorted(t *testing.T) {
	got := DailySummaries([]models.ForecastSample{
		sample(12, 12, 1, "a"),
		sample(11, 12, 2, "b"),
		sample(12, 15, 3, "c"),
	}, time.UTC)

	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-12", got[0].Date)
	assert.Equal(t, "2025-03-11", got[1].Date)
	assert.Equal(t, 1.0, got[0].TempMin)
	assert.Equal(t, 3.0, got[0].TempMax)
}

func TestLocalNoonUsesLocation(t *testing.T) {
	// UTC+5: 06:00 UTC is 11:00 local, 12:00 UTC is 17:00 local
	loc := time.FixedZone("", 5*3600)
	got := DailySummaries([]models.ForecastSample{
		sample(10, 6, 1, "local-noon"),
		sample(10, 12, 2, "utc-noon"),
	}, loc)

	require.Len(t, got, 1)
	assert.Equal(t, "local-noon", got[0].Icon)
	assert.Equal(t, "2025-03-10", got[0].Date)
}

func TestEmptyInput(t *testing.T) {
	assert.Empty(t, DailySummaries(nil, nil))
}

func TestBoundsHoldForRandomInput(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	start := time.Date(2025, time.March, 10, 3, 0, 0, 0, time.UTC)

	for run := 0; run < 50; run++ {
		n := 1 + r.Intn(60)
		samples := make([]models.ForecastSample, n)
		distinct := make(map[string]bool)
		for i := range samples {
			ts := start.Add(time.Duration(i*3) * time.Hour)
			samples[i] = models.ForecastSample{Time: ts, Temperature: r.Float64()*60 - 30}
			distinct[DayKey(ts)] = true
		}

		got := DailySummaries(samples, time.UTC)
		assert.LessOrEqual(t, len(got), MaxDays)
		assert.LessOrEqual(t, len(got), len(distinct))

		for _, d := range got {
			for _, s := range samples {
				if DayKey(s.Time) != d.Date {
					continue
				}
				assert.LessOrEqual(t, d.TempMin, s.Temperature)
				assert.GreaterOrEqual(t, d.TempMax, s.Temperature)
			}
		}
	}
}
