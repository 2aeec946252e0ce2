// Package geo описывает однократное определение местоположения пользователя.
package geo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"weather-widget/models"
)

// ErrDenied доступ к геолокации запрещен или она недоступна
var ErrDenied = errors.New("геолокация запрещена или недоступна")

// LocateError причина отказа геолокации
type LocateError struct {
	Reason string
}

func (e *LocateError) Error() string {
	return "геолокация: " + e.Reason
}

func (e *LocateError) Is(target error) bool {
	return target == ErrDenied
}

// Locator однократно возвращает координаты либо ошибку, совместимую с ErrDenied
type Locator interface {
	Locate(ctx context.Context) (models.Coordinates, error)
}

// Fixed заранее известные координаты (флаги командной строки)
type Fixed models.Coordinates

func (f Fixed) Locate(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	c := models.Coordinates(f)
	if err := validate(c); err != nil {
		return models.Coordinates{}, err
	}
	return c, nil
}

// Report результат геолокации, присланный браузером
type Report struct {
	Coords models.Coordinates
	Err    error
}

func (r Report) Locate(ctx context.Context) (models.Coordinates, error) {
	if r.Err != nil {
		return models.Coordinates{}, r.Err
	}
	return Fixed(r.Coords).Locate(ctx)
}

// FromForm разбирает ответ браузера: координаты или текст ошибки
func FromForm(lat, lon, errText string) Report {
	if errText = strings.TrimSpace(errText); errText != "" {
		return Report{Err: &LocateError{Reason: errText}}
	}
	if lat == "" || lon == "" {
		return Report{Err: &LocateError{Reason: "координаты не получены"}}
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Report{Err: &LocateError{Reason: "некорректная широта " + strconv.Quote(lat)}}
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Report{Err: &LocateError{Reason: "некорректная долгота " + strconv.Quote(lon)}}
	}
	return Report{Coords: models.Coordinates{Lat: la, Lon: lo}}
}

func validate(c models.Coordinates) error {
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return &LocateError{Reason: "координаты вне допустимого диапазона"}
	}
	return nil
}
