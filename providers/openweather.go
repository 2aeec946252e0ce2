package providers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"weather-widget/models"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

type OpenWeatherProvider struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

type Option func(*OpenWeatherProvider)

// WithBaseURL переопределяет адрес API (используется в тестах)
func WithBaseURL(baseURL string) Option {
	return func(p *OpenWeatherProvider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(p *OpenWeatherProvider) {
		if timeout > 0 {
			p.client.Timeout = timeout
		}
	}
}

func NewOpenWeatherProvider(apiKey string, opts ...Option) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return "OpenWeatherMap"
}

func (p *OpenWeatherProvider) IsAvailable() bool {
	return p.apiKey != ""
}

type owmCondition struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrent struct {
	Name string `json:"name"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []owmCondition `json:"weather"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type owmSample struct {
	Dt   int64 `json:"dt"`
	Main *struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []owmCondition `json:"weather"`
}

type owmForecast struct {
	List *[]owmSample `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone *int   `json:"timezone"` // сдвиг от UTC в секундах
	} `json:"city"`
}

// Current получает текущую погоду
func (p *OpenWeatherProvider) Current(ctx context.Context, q models.Query) (*models.CurrentConditions, error) {
	var result owmCurrent
	if err := p.fetchJSON(ctx, "weather", q, &result); err != nil {
		return nil, err
	}

	if result.Main == nil {
		return nil, &DecodeError{Reason: "нет блока main"}
	}
	if result.Wind == nil {
		return nil, &DecodeError{Reason: "нет блока wind"}
	}
	if len(result.Weather) == 0 {
		return nil, &DecodeError{Reason: "нет описания погоды"}
	}

	return &models.CurrentConditions{
		Name:        result.Name,
		Country:     result.Sys.Country,
		Temperature: result.Main.Temp,
		FeelsLike:   result.Main.FeelsLike,
		Humidity:    result.Main.Humidity,
		WindSpeed:   result.Wind.Speed,
		Condition:   result.Weather[0].ID,
		Icon:        result.Weather[0].Icon,
		Description: result.Weather[0].Description,
	}, nil
}

// Forecast получает прогноз на 5 дней с шагом 3 часа
func (p *OpenWeatherProvider) Forecast(ctx context.Context, q models.Query) (*models.Forecast, error) {
	var result owmForecast
	if err := p.fetchJSON(ctx, "forecast", q, &result); err != nil {
		return nil, err
	}

	if result.List == nil {
		return nil, &DecodeError{Reason: "нет списка прогноза"}
	}

	loc := time.UTC
	if result.City.Timezone != nil {
		loc = time.FixedZone("", *result.City.Timezone)
	}

	forecast := &models.Forecast{
		City:     result.City.Name,
		Country:  result.City.Country,
		Location: loc,
		Samples:  make([]models.ForecastSample, 0, len(*result.List)),
	}

	for i, item := range *result.List {
		if item.Dt == 0 {
			return nil, &DecodeError{Reason: fmt.Sprintf("элемент прогноза %d: нет времени", i)}
		}
		if item.Main == nil {
			return nil, &DecodeError{Reason: fmt.Sprintf("элемент прогноза %d: нет блока main", i)}
		}
		if len(item.Weather) == 0 {
			return nil, &DecodeError{Reason: fmt.Sprintf("элемент прогноза %d: нет описания погоды", i)}
		}
		forecast.Samples = append(forecast.Samples, models.ForecastSample{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			Condition:   item.Weather[0].ID,
			Icon:        item.Weather[0].Icon,
			Description: item.Weather[0].Description,
		})
	}

	return forecast, nil
}

// fetchJSON выполняет GET запрос и разбирает тело в out.
// Тело читается целиком и разбирается при любом статусе: провайдер кладет
// сообщение об ошибке в JSON и при неуспешном ответе.
func (p *OpenWeatherProvider) fetchJSON(ctx context.Context, endpoint string, q models.Query, out any) error {
	if !p.IsAvailable() {
		return ErrMissingCredential
	}
	if err := q.Validate(); err != nil {
		return fmt.Errorf("некорректный запрос: %w", err)
	}

	query := url.Values{}
	if q.Coords != nil {
		query.Set("lat", strconv.FormatFloat(q.Coords.Lat, 'f', -1, 64))
		query.Set("lon", strconv.FormatFloat(q.Coords.Lon, 'f', -1, 64))
	} else {
		query.Set("q", strings.TrimSpace(q.City))
	}
	query.Set("appid", p.apiKey)
	query.Set("units", "metric")

	reqURL := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		netErr := &NetworkError{Err: err}
		log.Printf("ошибка запроса %s для %q: %v", endpoint, q, netErr)
		return netErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("ошибка чтения ответа %s для %q: %v", endpoint, q, err)
		return &NetworkError{Err: err}
	}

	var data any
	parseErr := json.Unmarshal(body, &data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if parseErr == nil {
			msg = embeddedMessage(data)
		}
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		log.Printf("ошибка запроса %s для %q: %d %s: %s", endpoint, q, resp.StatusCode, http.StatusText(resp.StatusCode), body)
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if parseErr != nil {
		log.Printf("ответ %s для %q не JSON: %s", endpoint, q, body)
		return &DecodeError{Reason: "некорректный JSON", Err: parseErr}
	}
	if err := json.Unmarshal(body, out); err != nil {
		log.Printf("ответ %s для %q неожиданного формата: %s", endpoint, q, body)
		return &DecodeError{Reason: "неожиданный формат ответа", Err: err}
	}

	return nil
}

// embeddedMessage достает message или error из JSON ответа провайдера
func embeddedMessage(data any) string {
	obj, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// IconURL адрес иконки погоды на сервере провайдера
func IconURL(code string, scale int) string {
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@%dx.png", url.PathEscape(code), scale)
}
