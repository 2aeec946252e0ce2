// Package controller связывает действия пользователя с провайдером,
// агрегатором, отрисовкой и сохраненными настройками.
//
// Состояния: Idle -> Loading -> Rendered, либо Loading -> Idle с ошибкой.
// Одновременно активен только один поиск: новый поиск отменяет предыдущий,
// и отмененный поиск ничего не рисует и не сохраняет.
package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"weather-widget/aggregator"
	"weather-widget/geo"
	"weather-widget/models"
	"weather-widget/providers"
	"weather-widget/session"
)

var (
	// ErrEmptyCity пустой запрос, сеть не используется
	ErrEmptyCity = errors.New("пустое название города")
	// ErrSuperseded поиск отменен более новым поиском
	ErrSuperseded = errors.New("поиск заменен более новым")
)

type State int

const (
	Idle State = iota
	Loading
	Rendered
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	default:
		return "idle"
	}
}

// View поверхность интерфейса, которой управляет контроллер
type View interface {
	Clear()
	Status(msg string, isErr bool)
	SetInput(city string)
	Today(current models.CurrentConditions)
	Forecast(days []models.DailySummary)
}

type Controller struct {
	provider providers.Provider
	prefs    *session.Preferences

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
}

func New(provider providers.Provider, prefs *session.Preferences) *Controller {
	return &Controller{provider: provider, prefs: prefs}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Search ищет погоду по введенному городу и сохраняет введенное имя
func (c *Controller) Search(ctx context.Context, v View, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		v.Status("Please enter a city name.", true)
		return ErrEmptyCity
	}
	return c.run(ctx, v, models.CityQuery(city), "Searching...", func(models.Weather) string {
		return city
	})
}

// Geolocate ищет погоду по координатам и сохраняет имя места из ответа провайдера
func (c *Controller) Geolocate(ctx context.Context, v View, locator geo.Locator) error {
	coords, err := locator.Locate(ctx)
	if err != nil {
		err = &geoFailure{err}
		log.Printf("ошибка геолокации: %v", err)
		v.Status(StatusMessage(err), true)
		return err
	}
	return c.run(ctx, v, models.CoordsQuery(coords.Lat, coords.Lon), "Loading for your location...", func(w models.Weather) string {
		return w.Current.Name
	})
}

// Startup восстанавливает последний город и повторяет поиск, если задан ключ API
func (c *Controller) Startup(ctx context.Context, v View) error {
	last, err := c.prefs.LastCity(ctx)
	if err != nil {
		log.Printf("не удалось прочитать последний город: %v", err)
	}

	if last == "" {
		v.Status("Enter a city or use 'Use my location'.", false)
		return nil
	}

	v.SetInput(last)
	if !c.provider.IsAvailable() {
		v.Status("Set OPENWEATHER_API_KEY and reload to auto-load the last city.", false)
		return nil
	}
	return c.Search(ctx, v, last)
}

// Theme текущая тема сессии
func (c *Controller) Theme(ctx context.Context) models.Theme {
	theme, err := c.prefs.Theme(ctx)
	if err != nil {
		log.Printf("не удалось прочитать тему: %v", err)
	}
	return theme
}

// ToggleTheme сохраняет выбранную тему
func (c *Controller) ToggleTheme(ctx context.Context, dark bool) (models.Theme, error) {
	theme := models.ThemeLight
	if dark {
		theme = models.ThemeDark
	}
	if err := c.prefs.SetTheme(ctx, theme); err != nil {
		return theme, err
	}
	return theme, nil
}

func (c *Controller) run(ctx context.Context, v View, q models.Query, loading string, remember func(models.Weather) string) error {
	if !c.provider.IsAvailable() {
		log.Printf("поиск %q пропущен: %v", q, providers.ErrMissingCredential)
		v.Status(StatusMessage(providers.ErrMissingCredential), true)
		return providers.ErrMissingCredential
	}

	ctx, gen := c.begin(ctx)
	defer c.end(gen)

	// Сбрасываем старый результат до начала сетевых запросов
	v.Clear()
	v.Status(loading, false)

	weather, err := c.fetch(ctx, q)
	if err != nil {
		if !c.settle(gen, Idle) {
			return c.superseded(v)
		}
		log.Printf("ошибка поиска %q: %v", q, err)
		v.Status(StatusMessage(err), true)
		return err
	}

	if !c.commit(ctx, gen, remember(*weather)) {
		return c.superseded(v)
	}

	v.Today(weather.Current)
	v.Forecast(weather.Daily)
	v.Status("", false)
	return nil
}

// superseded снимает статус загрузки с вида замененного поиска
func (c *Controller) superseded(v View) error {
	v.Status(StatusMessage(ErrSuperseded), false)
	return ErrSuperseded
}

// fetch запрашивает текущую погоду и прогноз параллельно; нужны оба ответа
func (c *Controller) fetch(ctx context.Context, q models.Query) (*models.Weather, error) {
	var (
		current  *models.CurrentConditions
		forecast *models.Forecast
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = c.provider.Current(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		forecast, err = c.provider.Forecast(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.Weather{
		Current: *current,
		Daily:   aggregator.DailySummaries(forecast.Samples, forecast.Location),
	}, nil
}

// begin отменяет предыдущий поиск и открывает новое поколение
func (c *Controller) begin(ctx context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	ctx, c.cancel = context.WithCancel(ctx)
	c.state = Loading
	return ctx, c.gen
}

func (c *Controller) end(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen == gen && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// settle переводит контроллер в state, если поколение еще актуально
func (c *Controller) settle(gen uint64, state State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.state = state
	return true
}

// commit фиксирует успешный поиск и сохраняет город
func (c *Controller) commit(ctx context.Context, gen uint64, city string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.state = Rendered
	if err := c.prefs.SetLastCity(context.WithoutCancel(ctx), city); err != nil {
		log.Printf("не удалось сохранить последний город %q: %v", city, err)
	}
	return true
}
