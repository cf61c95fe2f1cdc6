package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-emotive/internal/app"
	"github.com/coreman2200/funtimes-emotive/internal/config"
	"github.com/coreman2200/funtimes-emotive/internal/driver/fake"
	"github.com/coreman2200/funtimes-emotive/internal/driver/preview"
	"github.com/coreman2200/funtimes-emotive/internal/render"
	"github.com/coreman2200/funtimes-emotive/internal/timeline"
	"github.com/coreman2200/funtimes-emotive/internal/ws"
)

func main() {
	fl := newFlags(flag.CommandLine)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional); passed flags win ----
	cfg, err := config.Load(fl.configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", fl.configPath).Msg("config load failed; proceeding with defaults and flags")
		cfg = config.Default()
	}
	fl.apply(flag.CommandLine, cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if fl.writeConfig != "" {
		if err := config.Save(fl.writeConfig, cfg); err != nil {
			log.Fatal().Err(err).Msg("write config")
		}
		log.Info().Str("path", fl.writeConfig).Msg("config written")
		return
	}

	// ---- Timeline store ----
	store := timeline.NewStore(nil)
	if cfg.Storage.AppName != "" {
		s, err := timeline.OpenStore(cfg.Storage.AppName)
		if err != nil {
			log.Warn().Err(err).Str("app", cfg.Storage.AppName).Msg("timeline store unavailable; keeping timelines in memory")
		} else {
			store = s
		}
	}

	// ---- Core + server ----
	server := ws.NewServer(log.Logger.With().Str("component", "ws").Logger())
	drivers := render.Drivers{preview.New(server.BroadcastFrame, preview.DefaultThrottle)}
	if fl.logFrames > 0 {
		drivers = append(drivers, &fake.Driver{Log: log.Logger, Every: fl.logFrames})
	}
	core, err := app.NewCore(app.Options{
		Config: cfg,
		Store:  store,
		Driver: drivers,
		Log:    log.Logger,
		OnDiag: server.PushDiag,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("core init failed")
	}
	server.Core = core

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.WatchCatalog && cfg.CatalogPath != "" {
		if err := core.WatchCatalog(ctx, cfg.CatalogPath); err != nil {
			log.Warn().Err(err).Str("path", cfg.CatalogPath).Msg("catalog watch failed")
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(server.Handler()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run frame loop & server ----
	go server.Run(ctx)
	go func() { _ = core.Run(ctx, cfg.FPS) }()
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("fps", cfg.FPS).Bool("persistent_store", store.Persistent()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	_ = srv.Shutdown(shutdownCtx)
}

type flags struct {
	fps          int
	addr         string
	configPath   string
	catalogPath  string
	watchCatalog bool
	logFrames    int
	storeApp     string
	writeConfig  string
	level        string
}

func newFlags(fs *flag.FlagSet) *flags {
	f := &flags{}
	fs.IntVar(&f.fps, "fps", 60, "target frames per second")
	fs.StringVar(&f.addr, "addr", ":8080", "HTTP listen address")
	fs.StringVar(&f.configPath, "config", "config.yaml", "path to config.yaml")
	fs.StringVar(&f.catalogPath, "catalog", "", "emotion catalog YAML (default: built in)")
	fs.BoolVar(&f.watchCatalog, "watch-catalog", false, "reload the catalog file when it changes")
	fs.IntVar(&f.logFrames, "log-frames", 0, "log every Nth frame (0 = off)")
	fs.StringVar(&f.storeApp, "store", "", "app name for saved timelines (default: memory only)")
	fs.StringVar(&f.writeConfig, "write-config", "", "write the effective config to this path and exit")
	fs.StringVar(&f.level, "log-level", "info", "debug | info | warn | error")
	return f
}

// apply copies the flags the user actually passed onto cfg.
func (f *flags) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "fps":
			cfg.FPS = f.fps
		case "addr":
			cfg.Addr = f.addr
		case "log-level":
			cfg.LogLevel = f.level
		case "catalog":
			cfg.CatalogPath = f.catalogPath
		case "watch-catalog":
			cfg.WatchCatalog = f.watchCatalog
		case "store":
			cfg.Storage.AppName = f.storeApp
		}
	})
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
