package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"airtune/internal/cache"
	"airtune/internal/config"
	"airtune/internal/logging"
	"airtune/internal/player"
	"airtune/internal/radio"
	"airtune/internal/ui"
)

const userAgent = "airtune/1.0 (terminal radio)"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "airtune:", ui.FatalStartupMessage(err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()

	appDir, err := config.AppDir()
	if err != nil {
		return fmt.Errorf("config directory: %w", err)
	}
	logger, closeLog := logging.Open(appDir)
	defer closeLog()

	catalog, err := loadCatalog(cfg, appDir, logger)
	if err != nil {
		logger.Error("catalog load failed", "err", err)
		return err
	}
	logger.Info("catalog loaded", "stations", catalog.Len(), "skipped", catalog.Skipped())

	favorites, favErr := config.LoadFavorites()
	if favErr != nil {
		logger.Warn("favorites unavailable", "err", favErr)
		favorites = nil
	} else {
		catalog.SeedFavorites(favorites.URLs())
	}

	spawner, err := player.NewExecSpawner(cfg.Player)
	if err != nil {
		return err
	}
	logger.Info("player backend selected", "backend", spawner.Backend())

	sup := player.NewSupervisor(spawner, logger)
	if cfg.Volume > 0 {
		sup.SetVolume(cfg.Volume)
	}

	monitor := player.NewMonitor(sup, time.Second, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go monitor.Run(ctx)

	model := ui.NewModel(catalog, sup, monitor, favorites, cfg.Theme)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := program.Run()

	cancel()
	sup.Shutdown()

	if runErr != nil {
		logger.Error("ui loop failed", "err", runErr)
		return runErr
	}
	return nil
}

// loadCatalog obtains the station payload: fresh cache first, then the
// network, then a stale cache as a last resort when the directory is down.
func loadCatalog(cfg config.AppConfig, appDir string, logger *log.Logger) (*radio.Catalog, error) {
	client, err := radio.NewClient(cfg.Endpoint, userAgent)
	if err != nil {
		return nil, err
	}

	store, storeErr := cache.Open(filepath.Join(appDir, "cache.db"))
	if storeErr != nil {
		logger.Warn("catalog cache unavailable", "err", storeErr)
	} else {
		defer store.Close()
		if payload, err := store.Get(client.Endpoint()); err == nil {
			logger.Info("using cached catalog", "endpoint", client.Endpoint())
			return radio.Load(payload)
		} else if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("catalog cache read failed", "err", err)
		}
	}

	payload, fetchErr := client.Fetch(context.Background())
	if fetchErr != nil {
		if store != nil {
			if stale, err := store.GetStale(client.Endpoint()); err == nil {
				logger.Warn("directory unreachable, using stale cache", "err", fetchErr)
				return radio.Load(stale)
			}
		}
		return nil, fetchErr
	}

	if store != nil {
		if err := store.Put(client.Endpoint(), payload); err != nil {
			logger.Warn("catalog cache write failed", "err", err)
		}
	}
	return radio.Load(payload)
}
