// Package render рисует панели виджета из уже проверенных данных.
// Функции пакета не ходят в сеть и не обрабатывают ошибки провайдера.
package render

import (
	"html/template"
	"io"
	"math"
	"time"

	"weather-widget/models"
	"weather-widget/providers"
)

// PageData состояние страницы виджета
type PageData struct {
	Theme       models.Theme
	Input       string
	Status      string
	StatusError bool
	Current     *models.CurrentConditions
	Daily       []models.DailySummary
	ShowDaily   bool
}

var funcs = template.FuncMap{
	"round":   Round,
	"icon":    providers.IconURL,
	"weekday": Weekday,
}

var templates = template.Must(template.New("widget").Funcs(funcs).Parse(`
{{define "today"}}<div class="icon">
      <img alt="{{.Description}}" src="{{icon .Icon 4}}">
    </div>
    <div class="info">
      <div class="small">{{.Name}}, {{.Country}}</div>
      <div class="temp">{{round .Temperature}}°C</div>
      <div class="small">{{.Description}} • Feels {{round .FeelsLike}}°C</div>
      <div class="small">Humidity: {{.Humidity}}% • Wind: {{round .WindSpeed}} m/s</div>
    </div>{{end}}

{{define "forecast"}}{{range .}}<div class="fcard">
      <div class="small">{{weekday .Date}}</div>
      <img src="{{icon .Icon 2}}" alt="{{.Description}}">
      <div class="small">{{round .TempMax}}° / {{round .TempMin}}°</div>
      <div class="small">{{.Description}}</div>
    </div>
    {{end}}{{end}}

{{define "page"}}<!DOCTYPE html>
<html data-theme="{{.Theme}}">
<head>
    <meta charset="utf-8">
    <title>Weather</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        html[data-theme="dark"] body { background: #1e1e1e; color: #eee; }
        .container { max-width: 800px; margin: 0 auto; }
        .hidden { display: none; }
        .error { color: crimson; }
        #today { display: flex; gap: 20px; align-items: center; }
        .temp { font-size: 3em; }
        .small { font-size: 0.9em; }
        #forecastCards { display: flex; gap: 12px; }
        .fcard { padding: 10px; border-radius: 5px; background: rgba(127,127,127,0.15); text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <form id="searchForm" action="/search" method="get">
        <input id="cityInput" name="city" placeholder="Enter city" value="{{.Input}}">
        <button id="searchBtn" type="submit">Search</button>
        <button id="geoBtn" type="button">Use my location</button>
    </form>
    <form id="themeForm" action="/theme" method="post">
        <label><input id="themeToggle" type="checkbox" name="dark"{{if eq .Theme "dark"}} checked{{end}} onchange="this.form.submit()"> Dark</label>
    </form>
    <div id="message"{{if .StatusError}} class="error"{{end}}>{{.Status}}</div>
    <div id="today"{{if not .Current}} class="hidden"{{end}}>{{with .Current}}{{template "today" .}}{{end}}</div>
    <div id="forecast"{{if not .ShowDaily}} class="hidden"{{end}}>
        <div id="forecastCards">{{if .ShowDaily}}{{template "forecast" .Daily}}{{end}}</div>
    </div>
</div>
<script>
document.getElementById("geoBtn").addEventListener("click", function () {
    if (!navigator.geolocation) {
        location.href = "/locate?error=" + encodeURIComponent("Geolocation is not supported in this browser.");
        return;
    }
    navigator.geolocation.getCurrentPosition(
        function (pos) { location.href = "/locate?lat=" + pos.coords.latitude + "&lon=" + pos.coords.longitude; },
        function (err) { location.href = "/locate?error=" + encodeURIComponent(err.message || "unavailable"); }
    );
});
</script>
</body>
</html>
{{end}}`))

// Today рисует панель текущей погоды
func Today(w io.Writer, c models.CurrentConditions) error {
	return templates.ExecuteTemplate(w, "today", c)
}

// Forecast рисует ряд карточек прогноза
func Forecast(w io.Writer, days []models.DailySummary) error {
	return templates.ExecuteTemplate(w, "forecast", days)
}

// Page рисует всю страницу виджета
func Page(w io.Writer, data PageData) error {
	return templates.ExecuteTemplate(w, "page", data)
}

// Round округление только для отображения
func Round(v float64) int {
	return int(math.Round(v))
}

// Weekday подпись карточки из ключа дня, например "Mon, Jan 2"
func Weekday(dayKey string) string {
	t, err := time.Parse(time.DateOnly, dayKey)
	if err != nil {
		return dayKey
	}
	return t.Format("Mon, Jan 2")
}
