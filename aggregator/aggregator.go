package aggregator

import (
	"math"
	"time"

	"weather-widget/models"
)

const (
	// MaxDays максимальное число дневных сводок
	MaxDays = 5

	noonHour = 12
)

// DailySummaries сворачивает трехчасовые отрезки прогноза в сводки по дням.
// День определяется датой отрезка в UTC, дни идут в порядке первого появления.
// Представительный отрезок дня ближе всех к полудню по часам loc, при равенстве
// побеждает более ранний.
func DailySummaries(samples []models.ForecastSample, loc *time.Location) []models.DailySummary {
	if loc == nil {
		loc = time.UTC
	}

	// Группируем по дням, сохраняя порядок
	var order []string
	days := make(map[string][]models.ForecastSample)
	for _, s := range samples {
		key := DayKey(s.Time)
		if _, ok := days[key]; !ok {
			order = append(order, key)
		}
		days[key] = append(days[key], s)
	}

	if len(order) > MaxDays {
		order = order[:MaxDays]
	}

	result := make([]models.DailySummary, 0, len(order))
	for _, key := range order {
		group := days[key]
		best := representative(group, loc)
		min, max := minMax(group)

		result = append(result, models.DailySummary{
			Date:        key,
			TempMin:     min,
			TempMax:     max,
			Condition:   best.Condition,
			Icon:        best.Icon,
			Description: best.Description,
		})
	}

	return result
}

// DayKey ключ календарного дня в UTC, YYYY-MM-DD
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// representative выбирает отрезок ближе всех к полудню
func representative(group []models.ForecastSample, loc *time.Location) models.ForecastSample {
	best := group[0]
	bestDiff := noonDistance(best.Time, loc)
	for _, s := range group[1:] {
		if d := noonDistance(s.Time, loc); d < bestDiff {
			best, bestDiff = s, d
		}
	}
	return best
}

func noonDistance(t time.Time, loc *time.Location) int {
	d := t.In(loc).Hour() - noonHour
	if d < 0 {
		return -d
	}
	return d
}

// minMax вычисляет мин и макс температуры
func minMax(group []models.ForecastSample) (float64, float64) {
	min := math.MaxFloat64
	max := -math.MaxFloat64

	for _, s := range group {
		if s.Temperature < min {
			min = s.Temperature
		}
		if s.Temperature > max {
			max = s.Temperature
		}
	}

	return min, max
}
