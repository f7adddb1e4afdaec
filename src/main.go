package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/integrii/flaggy"
	"github.com/pkg/profile"

	"bitlife/src/config"
	"bitlife/src/host"
	"bitlife/src/universe"
	"bitlife/src/view"
)

//defaultTemplate settles the universe when no random data or template is requested
const defaultTemplate = "testSample1"

var (
	views = map[string]func(ctx context.Context, cfg config.Config, out io.Writer, logger *log.Logger) (host.Viewer, error){
		config.ViewConsole: func(ctx context.Context, cfg config.Config, out io.Writer, _ *log.Logger) (host.Viewer, error) {
			return view.NewConsoleOut(ctx, out, details(cfg)), nil
		},
		config.ViewTUI: func(ctx context.Context, _ config.Config, _ io.Writer, logger *log.Logger) (host.Viewer, error) {
			return view.NewConsoleUI(ctx, logger)
		},
		config.ViewWindow: func(_ context.Context, cfg config.Config, _ io.Writer, _ *log.Logger) (host.Viewer, error) {
			return view.NewWindow(cfg.Scale, cfg.TPS())
		},
	}
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	profile     string
}

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.New(os.Stderr, "simlife: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Print(err)
		return 2
	}
	eo := initOptions(&cfg)

	switch eo.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		flaggy.ShowHelpAndExit("unknown profile mode " + eo.profile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := newSession(cfg, eo.randomData, logger)
	if err != nil {
		logger.Print(err)
		return 1
	}
	v, err := views[cfg.View](ctx, cfg, os.Stdout, logger)
	if err != nil {
		logger.Print(err)
		return 1
	}
	s.RegisterViewer(v)
	if err := v.Start(); err != nil {
		logger.Print(err)
		return 1
	}
	return 0
}

//newSession builds the universe described by cfg and wraps it into the session
func newSession(cfg config.Config, randomData bool, logger *log.Logger) (*host.Session, error) {
	opts := []universe.Option{universe.WithSize(cfg.Width, cfg.Height)}
	if cfg.Seed != 0 {
		opts = append(opts, universe.WithSeed(cfg.Seed))
	}
	if cfg.Trace {
		opts = append(opts, universe.WithTracer(universe.NewLogTracer(logger)))
	}

	var u *universe.Universe
	if randomData {
		var err error
		if u, err = universe.New(opts...); err != nil {
			return nil, fmt.Errorf("seed universe: %w", err)
		}
	} else {
		u = universe.NewEmpty(cfg.Width, cfg.Height, opts...)
	}

	s := host.NewSession(u, host.Options{
		Interval: cfg.Interval,
		MaxSteps: cfg.MaxSteps,
		Logger:   logger,
	}, nil)

	if !randomData {
		name := cfg.Template
		if name == "" {
			name = defaultTemplate
		}
		if err := s.SettleTemplate(name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func details(cfg config.Config) map[string]interface{} {
	d := map[string]interface{}{"engine": "bitset"}
	if cfg.Seed != 0 {
		d["seed"] = cfg.Seed
	}
	if cfg.Template != "" {
		d["template"] = cfg.Template
	}
	if cfg.Trace {
		d["trace"] = "on"
	}
	return d
}

func initOptions(cfg *config.Config) (eo *EnvOptions) {
	viewNames := make([]string, 0, len(views))
	for k := range views {
		viewNames = append(viewNames, k)
	}
	templateNames := make([]string, 0)
	for _, t := range universe.BuiltinTemplates() {
		templateNames = append(templateNames, t.Name)
	}

	eo = &EnvOptions{}
	flaggy.SetName("simlife")
	flaggy.SetDescription("\"The Life\" game simulation on a toroidal grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.UInt32(&cfg.Width, "x", "width", "Width of a simulation field")
	flaggy.UInt32(&cfg.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&cfg.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&cfg.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 means no limit")
	flaggy.UInt64(&cfg.Seed, "", "seed", "Seed of the random data, 0 picks a random seed")
	flaggy.String(&cfg.Template, "t", "template", "Template to settle ["+strings.Join(templateNames, "|")+"]")
	flaggy.Bool(&cfg.Trace, "", "trace", "Log every cell evaluation (slow)")
	flaggy.String(&cfg.View, "v", "view", "View to use ["+strings.Join(viewNames, "|")+"]")
	flaggy.Int(&cfg.Scale, "", "scale", "Window pixels per cell")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode (same as --view tui)")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.profile, "", "profile", "Write a profile to the working directory [cpu|mem]")

	flaggy.Parse()

	if eo.interactive {
		cfg.View = config.ViewTUI
	}
	if err := cfg.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	return
}
