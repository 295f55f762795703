package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/clock"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/facade"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/ipc"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/persist"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/settings"
)

func runDaemon() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if os.Getenv("PLASMAZONES_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := settings.Load()
	if err != nil {
		log.Warn().Err(err).Msg("config load failed, using defaults")
	}

	// The watcher goroutine swaps the settings value while the core reads
	// it, so the getter copies under a lock.
	var cfgMu sync.RWMutex
	current := cfg
	getSettings := func() settings.Settings {
		cfgMu.RLock()
		defer cfgMu.RUnlock()
		return current
	}

	statePath, err := persist.DefaultStatePath()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve state path")
	}
	store := &persist.Store{Path: statePath}

	screens := &screen.Sync{}
	core := facade.New(facade.Options{
		Screens:  screens,
		Settings: getSettings,
		Store:    store,
		Clock:    clock.Real{},
	})

	var watcher *settings.Watcher
	if cfgPath, err := settings.DefaultConfigPath(); err == nil {
		watcher, err = settings.Watch(cfgPath, func(s settings.Settings) {
			cfgMu.Lock()
			current = s
			cfgMu.Unlock()
		})
		if err != nil {
			log.Warn().Err(err).Msg("config watcher unavailable, reload requires restart")
		}
	}

	server, err := ipc.NewServer(core)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create IPC server")
	}
	server.Screens = screens
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start IPC server")
	}

	log.Info().Str("state", statePath).Msg("plasmazones daemon started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	server.Stop()
	if watcher != nil {
		watcher.Close()
	}
	core.Close()
}
