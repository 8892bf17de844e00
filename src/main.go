package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/integrii/flaggy"
	"github.com/pkg/errors"

	"toruslife/src/universe"
	"toruslife/src/view"
)

func main() {
	eo := initOptions()

	logger, closeLog, err := newLogger(eo)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	u, err := universe.NewTorusUniverse(&universe.Options{
		Engine:   eo.Engine,
		MaxSteps: eo.runMaxSteps(),
		Seed:     eo.Seed,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create the universe", "err", err)
		os.Exit(1)
	}
	defer u.Close()

	if eo.RandomData {
		u.Randomize()
	} else if err = u.SettleTemplate(eo.Template); err != nil {
		logger.Error("failed to settle the template", "err", err)
		os.Exit(1)
	}

	if eo.Interactive {
		v, err := view.NewViewTerminal(logger)
		if err != nil {
			logger.Error("failed to start the terminal UI", "err", err)
			os.Exit(1)
		}
		u.RegisterViewer(v)
		v.Start()
		return
	}

	fmt.Printf("\"The Life\" game simulation started...\n")
	out := view.NewConsoleOut(os.Stdout, 10)
	u.RegisterViewer(out)
	out.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	u.Start()
	select {
	case <-out.Done():
	case <-sigCh:
		u.Stop()
	}
}

func initOptions() EnvOptions {
	def := DefaultEnvOptions()
	cli := def
	configFile := ""

	flaggy.SetName("toruslife")
	flaggy.SetDescription("Conway's Game of Life on a 32x32 torus")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&configFile, "c", "config", "JSON file with the options, flags override it")
	flaggy.Bool(&cli.Interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&cli.RandomData, "r", "random", "Settle with random data")
	flaggy.String(&cli.Template, "t", "template", "Template to settle without random data ["+strings.Join(universe.TemplateNames(), "|")+"]")
	flaggy.String(&cli.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.EngineNames(), "|")+"]")
	flaggy.Int(&cli.MaxSteps, "s", "maxSteps", "Limit a headless run to maxSteps, 0 is unlimited")
	flaggy.Int64(&cli.Seed, "d", "seed", "Seed of the random data, 0 picks one")
	flaggy.Bool(&cli.Verbose, "v", "verbose", "Log every step")
	flaggy.String(&cli.LogFile, "l", "log", "Write the log to this file")

	flaggy.Parse()

	eo := cli
	if configFile != "" {
		base, err := LoadEnvOptions(configFile)
		if err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
		eo = overlay(base, cli, def)
	}

	if _, err := universe.LookupEngine(eo.Engine); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	return eo
}

//newLogger builds the logger, the terminal UI owns stderr so interactive runs log to a file or nowhere
func newLogger(eo EnvOptions) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if eo.LogFile != "" {
		f, err := os.OpenFile(eo.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to open log file %s", eo.LogFile)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	} else if eo.Interactive {
		w = io.Discard
	}

	level := log.InfoLevel
	if eo.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "toruslife",
		ReportTimestamp: true,
	})
	return logger, closeFn, nil
}
