package server

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"weather-widget/controller"
	"weather-widget/geo"
	"weather-widget/models"
	"weather-widget/providers"
	"weather-widget/render"
	"weather-widget/session"
)

const (
	sessionCookie = "weather_session"
	// sessionIdle через это время бездействия контроллер сессии выгружается;
	// настройки остаются в хранилище
	sessionIdle = 30 * time.Minute
	sweepEvery  = time.Minute
)

// Server веб-интерфейс виджета. У каждого браузера своя сессия,
// свои настройки и свой контроллер.
type Server struct {
	provider providers.Provider
	store    session.Store
	now      func() time.Time

	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	lastSweep time.Time
}

type sessionEntry struct {
	ctrl *controller.Controller
	seen time.Time
}

func New(provider providers.Provider, store session.Store) *Server {
	return &Server{
		provider: provider,
		store:    store,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Handler маршруты веб-интерфейса и API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.homeHandler)
	mux.HandleFunc("/search", s.searchHandler)
	mux.HandleFunc("/locate", s.locateHandler)
	mux.HandleFunc("/theme", s.themeHandler)
	mux.HandleFunc("/api/weather", s.weatherHandler)
	mux.HandleFunc("/api/health", s.healthHandler)

	return mux
}

// controllerFor возвращает контроллер сессии, создавая сессию при необходимости
func (s *Server) controllerFor(w http.ResponseWriter, r *http.Request) *controller.Controller {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int((365 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		// Клиент без cookie может не вернуть ее никогда, такой контроллер не запоминаем
		return controller.New(s.provider, session.NewPreferences(s.store, id))
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(now)

	entry, ok := s.sessions[id]
	if !ok {
		entry = &sessionEntry{ctrl: controller.New(s.provider, session.NewPreferences(s.store, id))}
		s.sessions[id] = entry
	}
	entry.seen = now
	return entry.ctrl
}

// sweep выгружает контроллеры простаивающих сессий. Вызывается под s.mu.
func (s *Server) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < sweepEvery {
		return
	}
	s.lastSweep = now

	for id, entry := range s.sessions {
		if now.Sub(entry.seen) >= sessionIdle && entry.ctrl.State() != controller.Loading {
			delete(s.sessions, id)
		}
	}
}

// homeHandler главная страница: восстанавливает последний город
func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ctrl := s.controllerFor(w, r)
	view := &pageView{}
	if err := ctrl.Startup(r.Context(), view); err != nil {
		log.Printf("не удалось восстановить последний поиск: %v", err)
	}
	s.writePage(w, r, ctrl, view)
}

// searchHandler поиск по введенному городу
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctrl := s.controllerFor(w, r)
	city := r.URL.Query().Get("city")
	view := &pageView{}
	view.SetInput(city)
	ctrl.Search(r.Context(), view, city)
	s.writePage(w, r, ctrl, view)
}

// locateHandler поиск по координатам, присланным браузером
func (s *Server) locateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctrl := s.controllerFor(w, r)
	q := r.URL.Query()
	view := &pageView{}
	ctrl.Geolocate(r.Context(), view, geo.FromForm(q.Get("lat"), q.Get("lon"), q.Get("error")))
	s.writePage(w, r, ctrl, view)
}

// themeHandler переключатель темы
func (s *Server) themeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctrl := s.controllerFor(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return
	}
	if _, err := ctrl.ToggleTheme(r.Context(), r.PostForm.Get("dark") != ""); err != nil {
		log.Printf("не удалось сохранить тему: %v", err)
		http.Error(w, "Cannot save theme", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// weatherHandler JSON API: текущая погода и сводки по дням
func (s *Server) weatherHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	ctrl := s.controllerFor(w, r)
	q := r.URL.Query()
	view := &pageView{}

	var err error
	if q.Has("lat") || q.Has("lon") {
		err = ctrl.Geolocate(r.Context(), view, geo.FromForm(q.Get("lat"), q.Get("lon"), ""))
	} else {
		err = ctrl.Search(r.Context(), view, q.Get("city"))
	}

	if err != nil {
		w.WriteHeader(statusCode(err))
		json.NewEncoder(w).Encode(models.ErrorResponse{
			Error:   controller.StatusMessage(err),
			Details: err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(models.Weather{
		Current: *view.data.Current,
		Daily:   view.data.Daily,
	})
}

// healthHandler проверка здоровья сервиса
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "ok",
		"timestamp":  time.Now().Format(time.RFC3339),
		"provider":   s.provider.Name(),
		"configured": s.provider.IsAvailable(),
	})
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, ctrl *controller.Controller, view *pageView) {
	view.data.Theme = ctrl.Theme(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(w, view.data); err != nil {
		log.Printf("ошибка отрисовки страницы: %v", err)
	}
}

// statusCode HTTP статус JSON API для ошибки поиска
func statusCode(err error) int {
	var apiErr *providers.APIError
	switch {
	case errors.Is(err, controller.ErrEmptyCity), errors.Is(err, geo.ErrDenied):
		return http.StatusBadRequest
	case errors.Is(err, providers.ErrMissingCredential):
		return http.StatusServiceUnavailable
	case errors.Is(err, controller.ErrSuperseded):
		return http.StatusConflict
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	default:
		return http.StatusBadGateway
	}
}

// backTo локальный адрес страницы, с которой пришел запрос
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	// "//host" и "/\host" браузер поймет как адрес другого сайта
	if !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") || strings.HasPrefix(ref.Path, "/\\") {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// pageView собирает состояние страницы по командам контроллера
type pageView struct {
	data render.PageData
}

func (v *pageView) Clear() {
	v.data.Current = nil
	v.data.Daily = nil
	v.data.ShowDaily = false
}

func (v *pageView) Status(msg string, isErr bool) {
	v.data.Status = msg
	v.data.StatusError = isErr
}

func (v *pageView) SetInput(city string) {
	v.data.Input = city
}

func (v *pageView) Today(c models.CurrentConditions) {
	v.data.Current = &c
}

func (v *pageView) Forecast(days []models.DailySummary) {
	v.data.Daily = days
	v.data.ShowDaily = true
}

var _ controller.View = (*pageView)(nil)
