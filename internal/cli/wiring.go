package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/airkeys/internal/app"
	"github.com/ayusman/airkeys/internal/config"
	"github.com/ayusman/airkeys/internal/dispatch"
	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/layout"
	"github.com/ayusman/airkeys/internal/plugin"
	"github.com/ayusman/airkeys/internal/server"
	"github.com/ayusman/airkeys/internal/store"
)

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	variant, err := layout.ParseVariant(cfg.Layout)
	if err != nil {
		return nil, err
	}
	l, err := layout.ForVariant(variant)
	if err != nil {
		return nil, err
	}
	return engine.New(l, cfg.EngineConfig()), nil
}

// buildInjector returns the configured key sink, or nil when none is
// configured or it cannot be created. The keyboard still runs without one.
func buildInjector(cfg *config.Config) dispatch.Injector {
	switch cfg.Injector.Kind {
	case config.InjectorPlugin:
		inj, err := dispatch.NewPluginInjector(
			plugin.NewManager(cfg.Injector.PluginDir),
			plugin.NewExecutor(cfg.InjectorTimeout()),
		)
		if err != nil {
			log.Printf("Key injection disabled: %v", err)
			return nil
		}
		log.Printf("Injecting keys with plugin %s", inj.Plugin().Manifest.Name)
		return inj

	case config.InjectorRobotgo:
		inj, err := dispatch.NewRobotInjector()
		if err != nil {
			log.Printf("Key injection disabled: %v", err)
			return nil
		}
		log.Println("Injecting keys with robotgo")
		return inj
	}
	return nil
}

// openHistory opens the history database, or returns nil when history is
// disabled.
func openHistory(cfg *config.Config) (*store.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return st, nil
}

// serve runs the HTTP server in the background until ctx is done.
func serve(ctx context.Context, cfg *config.Config, a *app.App, st *store.Store) {
	if !cfg.Server.Enabled {
		return
	}

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		log.Printf("Serving static files from %s", staticDir)
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		Source:    a,
		Layout:    a.Engine().Layout(),
	})
	go func() {
		if err := srv.Serve(ctx, cfg.Server.Addr); err != nil {
			log.Printf("HTTP server failed: %v", err)
		}
	}()
}

// findWebDir looks for a web directory next to the working directory, then
// in the data directory. It returns "" when there is none.
func findWebDir() string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(config.DataDir(), "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
