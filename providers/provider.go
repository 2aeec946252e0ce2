package providers

import (
	"context"

	"weather-widget/models"
)

// Provider интерфейс погодного провайдера: текущая погода и прогноз
type Provider interface {
	Name() string
	Current(ctx context.Context, q models.Query) (*models.CurrentConditions, error)
	Forecast(ctx context.Context, q models.Query) (*models.Forecast, error)
	IsAvailable() bool
}
