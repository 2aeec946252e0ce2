package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Coordinates географическая точка
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Query запрос погоды: либо город, либо координаты, но не оба сразу
type Query struct {
	City   string       `json:"city,omitempty"`
	Coords *Coordinates `json:"coords,omitempty"`
}

func CityQuery(city string) Query {
	return Query{City: city}
}

func CoordsQuery(lat, lon float64) Query {
	return Query{Coords: &Coordinates{Lat: lat, Lon: lon}}
}

// Validate проверяет, что активна ровно одна форма запроса
func (q Query) Validate() error {
	hasCity := strings.TrimSpace(q.City) != ""
	switch {
	case hasCity && q.Coords != nil:
		return errors.New("в запросе указаны и город, и координаты")
	case !hasCity && q.Coords == nil:
		return errors.New("в запросе нет ни города, ни координат")
	}
	return nil
}

func (q Query) String() string {
	if q.Coords != nil {
		return fmt.Sprintf("%.4f,%.4f", q.Coords.Lat, q.Coords.Lon)
	}
	return q.City
}

// CurrentConditions текущая погода
type CurrentConditions struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"` // в градусах Цельсия
	FeelsLike   float64 `json:"feels_like"`  // ощущается как
	Humidity    float64 `json:"humidity"`    // влажность %
	WindSpeed   float64 `json:"wind_speed"`  // скорость ветра м/с
	Condition   int     `json:"condition"`   // код погодных условий провайдера
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

// ForecastSample один трехчасовой отрезок прогноза
type ForecastSample struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Condition   int       `json:"condition"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
}

// Forecast прогноз на 5 дней с шагом 3 часа
type Forecast struct {
	City     string           `json:"city"`
	Country  string           `json:"country"`
	Location *time.Location   `json:"-"` // часовой пояс города
	Samples  []ForecastSample `json:"samples"`
}

// DailySummary сводка за один календарный день (UTC)
type DailySummary struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Condition   int     `json:"condition"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

// Weather результат успешного поиска
type Weather struct {
	Current CurrentConditions `json:"current"`
	Daily   []DailySummary    `json:"daily"`
}

// Theme тема оформления
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme разбирает значение темы, пустое или неизвестное значение дает светлую тему
func ParseTheme(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// ErrorResponse структура для ошибок
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
