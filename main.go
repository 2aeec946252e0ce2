package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"weather-widget/config"
	"weather-widget/controller"
	"weather-widget/providers"
	"weather-widget/server"
	"weather-widget/session"
)

var (
	cfg      *config.Config
	provider *providers.OpenWeatherProvider
	store    session.Store
)

func main() {
	// Загружаем конфигурацию
	cfg = config.Load()

	provider = providers.NewOpenWeatherProvider(cfg.OpenWeatherAPIKey,
		providers.WithBaseURL(cfg.OpenWeatherBaseURL),
		providers.WithTimeout(cfg.HTTPTimeout),
	)
	if !provider.IsAvailable() {
		log.Printf("OPENWEATHER_API_KEY не задан, поиск будет недоступен")
	}

	var rootCmd = &cobra.Command{
		Use:   "weather",
		Short: "Погодный виджет",
		Long:  "Текущая погода и прогноз на 5 дней по городу или координатам",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			sqlite, err := session.NewSQLite(cfg.PrefsDB)
			if err != nil {
				return fmt.Errorf("не удалось открыть хранилище настроек: %w", err)
			}
			store = sqlite
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Команда для запуска сервера
	var serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Запуск HTTP сервера",
		Run: func(cmd *cobra.Command, args []string) {
			startServer()
		},
	}

	// Команда для запроса погоды через CLI
	var getCmd = &cobra.Command{
		Use:   "get [город]",
		Short: "Получить погоду по городу или координатам",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return getWeatherCLI(cmd, args, output)
		},
	}

	getCmd.Flags().StringP("output", "o", "text", "Формат вывода (text, json)")
	getCmd.Flags().Float64("lat", 0, "Широта")
	getCmd.Flags().Float64("lon", 0, "Долгота")
	getCmd.MarkFlagsRequiredTogether("lat", "lon")

	// Команда для повтора последнего поиска
	var resumeCmd = &cobra.Command{
		Use:   "resume",
		Short: "Повторить поиск по последнему городу",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return resumeCLI(output)
		},
	}
	resumeCmd.Flags().StringP("output", "o", "text", "Формат вывода (text, json)")

	// Команда для переключения темы
	var themeCmd = &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Переключить тему оформления",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"light", "dark"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleTheme(args)
		},
	}

	// Команда для просмотра настроек
	var prefsCmd = &cobra.Command{
		Use:   "prefs",
		Short: "Показать сохраненные настройки",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showPrefs()
		},
	}

	rootCmd.AddCommand(serverCmd, getCmd, resumeCmd, themeCmd, prefsCmd)

	err := rootCmd.Execute()
	if store != nil {
		store.Close()
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// startServer запускает HTTP сервер
func startServer() {
	srv := server.New(provider, store)

	// Настройка сервера
	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Сервер запущен на порту %s", cfg.ServerPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	<-quit
	log.Println("Завершение работы сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Ошибка при завершении работы сервера: %v", err)
	}

	log.Println("Сервер остановлен")
}

func newCLIController() *controller.Controller {
	return controller.New(provider, session.NewPreferences(store, cfg.SessionID))
}
