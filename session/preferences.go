package session

import (
	"context"

	"weather-widget/models"
)

const (
	LastCityKey = "weather_last_city"
	ThemeKey    = "weather_theme"
)

// Preferences сохраненные настройки одной сессии: последний город и тема.
// Читаются при старте, пишутся после успешного поиска или переключения темы.
type Preferences struct {
	store     Store
	sessionID string
}

func NewPreferences(store Store, sessionID string) *Preferences {
	return &Preferences{store: store, sessionID: sessionID}
}

func (p *Preferences) SessionID() string {
	return p.sessionID
}

// LastCity возвращает последний город, пустая строка если не сохранен
func (p *Preferences) LastCity(ctx context.Context) (string, error) {
	v, _, err := p.store.Get(ctx, p.sessionID, LastCityKey)
	return v, err
}

// SetLastCity сохраняет город как есть
func (p *Preferences) SetLastCity(ctx context.Context, city string) error {
	return p.store.Set(ctx, p.sessionID, LastCityKey, city)
}

// Theme возвращает тему, по умолчанию светлую
func (p *Preferences) Theme(ctx context.Context) (models.Theme, error) {
	v, ok, err := p.store.Get(ctx, p.sessionID, ThemeKey)
	if err != nil || !ok {
		return models.ThemeLight, err
	}
	return models.ParseTheme(v), nil
}

func (p *Preferences) SetTheme(ctx context.Context, theme models.Theme) error {
	return p.store.Set(ctx, p.sessionID, ThemeKey, string(models.ParseTheme(string(theme))))
}
