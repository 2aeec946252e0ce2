package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"weather-widget/models"
)

var almaty = models.CurrentConditions{
	Name:        "Almaty",
	Country:     "KZ",
	Temperature: -5.6,
	FeelsLike:   -9.4,
	Humidity:    72,
	WindSpeed:   3.5,
	Icon:        "04d",
	Description: "overcast clouds",
}

// parse разбирает фрагмент HTML и возвращает корневой узел
func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && strings.Contains(" "+attr(n, "class")+" ", " "+class+" ")
	}
}

func isTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }
}

func text(n *html.Node) string {
	var b strings.Builder
	for _, c := range findAll(n, func(n *html.Node) bool { return n.Type == html.TextNode }) {
		b.WriteString(c.Data)
	}
	return b.String()
}

func TestToday(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Today(&buf, almaty))

	doc := parse(t, buf.String())
	imgs := findAll(doc, isTag("img"))
	require.Len(t, imgs, 1)
	assert.Equal(t, "https://openweathermap.org/img/wn/04d@4x.png", attr(imgs[0], "src"))
	assert.Equal(t, "overcast clouds", attr(imgs[0], "alt"))

	out := text(doc)
	assert.Contains(t, out, "Almaty, KZ")
	assert.Contains(t, out, "-6°C")
	assert.Contains(t, out, "Feels -9°C")
	assert.Contains(t, out, "Humidity: 72%")
	assert.Contains(t, out, "Wind: 4 m/s")
}

func TestTodayEscapes(t *testing.T) {
	c := almaty
	c.Name = `<script>alert(1)</script>`

	var buf bytes.Buffer
	require.NoError(t, Today(&buf, c))
	assert.NotContains(t, buf.String(), "<script>")
}

func TestForecastCards(t *testing.T) {
	days := []models.DailySummary{
		{Date: "2025-03-10", TempMin: 1.4, TempMax: 9.5, Icon: "01d", Description: "clear sky"},
		{Date: "2025-03-11", TempMin: -2.6, TempMax: 3.2, Icon: "13d", Description: "snow"},
	}

	var buf bytes.Buffer
	require.NoError(t, Forecast(&buf, days))

	cards := findAll(parse(t, buf.String()), hasClass("fcard"))
	require.Len(t, cards, 2)

	first := text(cards[0])
	assert.Contains(t, first, "Mon, Mar 10")
	assert.Contains(t, first, "10° / 1°")
	assert.Contains(t, first, "clear sky")

	second := text(cards[1])
	assert.Contains(t, second, "Tue, Mar 11")
	assert.Contains(t, second, "3° / -3°")
	img := findAll(cards[1], isTag("img"))
	require.Len(t, img, 1)
	assert.Equal(t, "https://openweathermap.org/img/wn/13d@2x.png", attr(img[0], "src"))
}

func TestPageHidesPanelsUntilRendered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(&buf, PageData{Theme: models.ThemeLight, Status: "Enter a city or use 'Use my location'."}))

	doc := parse(t, buf.String())
	hidden := findAll(doc, hasClass("hidden"))
	var ids []string
	for _, n := range hidden {
		ids = append(ids, attr(n, "id"))
	}
	assert.ElementsMatch(t, []string{"today", "forecast"}, ids)
	assert.Empty(t, findAll(doc, hasClass("fcard")))
}

func TestPageRendered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(&buf, PageData{
		Theme:     models.ThemeDark,
		Input:     "Almaty",
		Current:   &almaty,
		Daily:     []models.DailySummary{{Date: "2025-03-10", Icon: "01d"}},
		ShowDaily: true,
	}))

	doc := parse(t, buf.String())
	htmlTag := findAll(doc, isTag("html"))
	require.Len(t, htmlTag, 1)
	assert.Equal(t, "dark", attr(htmlTag[0], "data-theme"))

	inputs := findAll(doc, func(n *html.Node) bool { return isTag("input")(n) && attr(n, "id") == "cityInput" })
	require.Len(t, inputs, 1)
	assert.Equal(t, "Almaty", attr(inputs[0], "value"))

	assert.Empty(t, findAll(doc, hasClass("hidden")))
	assert.Len(t, findAll(doc, hasClass("fcard")), 1)
}

func TestPageErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(&buf, PageData{Status: "API Error: city not found", StatusError: true}))

	msg := findAll(parse(t, buf.String()), func(n *html.Node) bool { return attr(n, "id") == "message" })
	require.Len(t, msg, 1)
	assert.Equal(t, "error", attr(msg[0], "class"))
	assert.Equal(t, "API Error: city not found", text(msg[0]))
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, "Sun, Oct 19", Weekday("2025-10-19"))
	assert.Equal(t, "garbage", Weekday("garbage"))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3, Round(2.5))
	assert.Equal(t, -3, Round(-2.5))
	assert.Equal(t, 0, Round(-0.4))
}
