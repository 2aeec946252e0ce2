package controller

import (
	"errors"

	"weather-widget/geo"
	"weather-widget/providers"
)

// geoFailure помечает любую ошибку геолокации, включая отмену
type geoFailure struct{ err error }

func (g *geoFailure) Error() string { return g.err.Error() }
func (g *geoFailure) Unwrap() error { return g.err }
func (g *geoFailure) Is(target error) bool { return target == geo.ErrDenied }

// StatusMessage переводит ошибку в строку статуса для пользователя.
// Подробности (коды, тела ответов) остаются в логе.
func StatusMessage(err error) string {
	var (
		apiErr *providers.APIError
		netErr *providers.NetworkError
		decErr *providers.DecodeError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, providers.ErrMissingCredential):
		return "You must set OPENWEATHER_API_KEY before searching."
	case errors.Is(err, geo.ErrDenied):
		return "Location permission blocked or unavailable."
	case errors.Is(err, ErrEmptyCity):
		return "Please enter a city name."
	case errors.Is(err, ErrSuperseded):
		return "A newer search replaced this one."
	case errors.As(err, &apiErr):
		return "API Error: " + apiErr.Message
	case errors.As(err, &netErr):
		return "Network / Fetch error: " + netErr.Cause().Error() + ". See the log for details."
	case errors.As(err, &decErr):
		return "Unexpected response from the weather service."
	default:
		return "Error: " + err.Error()
	}
}
