package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-emotive/internal/app"
	"github.com/coreman2200/funtimes-emotive/internal/config"
	"github.com/coreman2200/funtimes-emotive/internal/driver/fake"
	"github.com/coreman2200/funtimes-emotive/internal/timeline"
)

// emotivesim plays a timeline headlessly on a virtual clock and logs frames.
func main() {
	var (
		timelinePath string
		configPath   string
		fps          int
		every        int
		seekMs       int64
		schema       bool
	)
	flag.StringVar(&timelinePath, "timeline", "", "path to timeline JSON")
	flag.StringVar(&configPath, "config", "", "optional config.yaml")
	flag.IntVar(&fps, "fps", 60, "simulation frames per second")
	flag.IntVar(&every, "every", 15, "log every Nth frame")
	flag.Int64Var(&seekMs, "seek", -1, "seek to this time (ms), print the state and exit")
	flag.BoolVar(&schema, "schema", false, "print the timeline JSON schema and exit")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if schema {
		b, err := timeline.Schema()
		if err != nil {
			log.Fatal().Err(err).Msg("schema")
		}
		fmt.Println(string(b))
		return
	}
	if timelinePath == "" {
		log.Fatal().Msg("provide -timeline path to a timeline JSON")
	}

	cfg := config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config")
		}
		cfg = c
	}
	if fps <= 0 {
		fps = 60
	}

	data, err := os.ReadFile(timelinePath)
	if err != nil {
		log.Fatal().Err(err).Msg("read timeline")
	}
	core, err := app.NewCore(app.Options{
		Config: cfg,
		Driver: &fake.Driver{Log: log.Logger, Every: every},
		Log:    log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("core")
	}
	if err := core.ImportJSON(data); err != nil {
		log.Fatal().Err(err).Msg("import")
	}

	if seekMs >= 0 {
		pos := core.Seek(seekMs)
		st := core.State()
		log.Info().Int64("t_ms", pos.Time).Str("emotion", st.Emotion).Str("shape", pos.Shape).
			Str("color", st.Properties.PrimaryColor).Msg("seek")
		return
	}

	tl := core.Export()
	core.Play(nil)
	dt := time.Second / time.Duration(fps)
	var frames int
	for core.Status().Playing {
		if _, err := core.Step(dt); err != nil {
			log.Fatal().Err(err).Msg("step")
		}
		frames++
	}
	// Let the last transition settle.
	settle := int(time.Duration(cfg.Transition.DurationMs) * time.Millisecond / dt)
	for i := 0; i < settle; i++ {
		_, _ = core.Step(dt)
		frames++
	}
	st := core.State()
	log.Info().Int("frames", frames).Int("events", len(tl.Events)).Int64("end_ms", tl.End()).
		Str("emotion", st.Emotion).Msg("done")
}
