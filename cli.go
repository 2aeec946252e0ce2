package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"weather-widget/geo"
	"weather-widget/models"
	"weather-widget/render"
	"weather-widget/session"
)

// errReported ошибка уже показана пользователю строкой статуса
var errReported = errors.New("reported")

// textView вывод виджета в терминал
type textView struct {
	out     io.Writer
	status  io.Writer
	json    bool
	current *models.CurrentConditions
	daily   []models.DailySummary
}

func newTextView(output string) *textView {
	return &textView{out: os.Stdout, status: os.Stderr, json: output == "json"}
}

func (v *textView) Clear() {
	v.current = nil
	v.daily = nil
}

func (v *textView) Status(msg string, isErr bool) {
	if msg == "" {
		return
	}
	if isErr {
		fmt.Fprintln(v.status, "❌ "+msg)
		return
	}
	fmt.Fprintln(v.status, msg)
}

func (v *textView) SetInput(city string) {
	fmt.Fprintf(v.status, "Последний город: %s\n", city)
}

func (v *textView) Today(c models.CurrentConditions) {
	v.current = &c
	if v.json {
		return
	}

	fmt.Fprintf(v.out, "🌤️  Погода в %s, %s\n", c.Name, c.Country)
	fmt.Fprintln(v.out, strings.Repeat("=", 40))
	fmt.Fprintf(v.out, "Температура: %d°C\n", render.Round(c.Temperature))
	fmt.Fprintf(v.out, "Ощущается как: %d°C\n", render.Round(c.FeelsLike))
	fmt.Fprintf(v.out, "Влажность: %.0f%%\n", c.Humidity)
	fmt.Fprintf(v.out, "Скорость ветра: %d м/с\n", render.Round(c.WindSpeed))
	fmt.Fprintf(v.out, "Описание: %s\n", c.Description)
}

func (v *textView) Forecast(days []models.DailySummary) {
	v.daily = days
	if v.json {
		return
	}

	fmt.Fprintln(v.out)
	fmt.Fprintln(v.out, "Прогноз:")
	fmt.Fprintln(v.out, strings.Repeat("-", 40))
	for _, d := range days {
		fmt.Fprintf(v.out, "%-12s %4d° / %4d°  %s\n", render.Weekday(d.Date), render.Round(d.TempMax), render.Round(d.TempMin), d.Description)
	}
}

// flush печатает JSON, если результат получен
func (v *textView) flush() error {
	if !v.json || v.current == nil {
		return nil
	}
	data, err := json.MarshalIndent(models.Weather{Current: *v.current, Daily: v.daily}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(v.out, string(data))
	return nil
}

// getWeatherCLI получает погоду через CLI
func getWeatherCLI(cmd *cobra.Command, args []string, output string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout+time.Second)
	defer cancel()

	ctrl := newCLIController()
	view := newTextView(output)

	var err error
	if cmd.Flags().Changed("lat") {
		if len(args) > 0 {
			return fmt.Errorf("укажите либо город, либо координаты")
		}
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		err = ctrl.Geolocate(ctx, view, geo.Fixed{Lat: lat, Lon: lon})
	} else {
		city := ""
		if len(args) > 0 {
			city = args[0]
		}
		err = ctrl.Search(ctx, view, city)
	}
	if err != nil {
		return errReported
	}
	return view.flush()
}

// resumeCLI повторяет поиск по последнему городу, как при загрузке страницы
func resumeCLI(output string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout+time.Second)
	defer cancel()

	view := newTextView(output)
	if err := newCLIController().Startup(ctx, view); err != nil {
		return errReported
	}
	return view.flush()
}

// toggleTheme переключает тему или устанавливает заданную
func toggleTheme(args []string) error {
	ctx := context.Background()
	ctrl := newCLIController()

	dark := ctrl.Theme(ctx) != models.ThemeDark
	if len(args) == 1 {
		dark = models.ParseTheme(args[0]) == models.ThemeDark
	}

	theme, err := ctrl.ToggleTheme(ctx, dark)
	if err != nil {
		return fmt.Errorf("не удалось сохранить тему: %w", err)
	}
	fmt.Printf("Тема: %s\n", theme)
	return nil
}

// showPrefs показывает сохраненные настройки
func showPrefs() error {
	ctx := context.Background()
	prefs := session.NewPreferences(store, cfg.SessionID)

	city, err := prefs.LastCity(ctx)
	if err != nil {
		return err
	}
	theme, err := prefs.Theme(ctx)
	if err != nil {
		return err
	}

	fmt.Println("⚙️  Настройки сессии", prefs.SessionID())
	fmt.Println(strings.Repeat("-", 30))
	if city == "" {
		fmt.Println("Последний город: (нет)")
	} else {
		fmt.Printf("Последний город: %s\n", city)
	}
	fmt.Printf("Тема: %s\n", theme)
	if provider.IsAvailable() {
		fmt.Printf("✓ %s\n", provider.Name())
	} else {
		fmt.Printf("✗ %s (не настроен)\n", provider.Name())
	}
	return nil
}
