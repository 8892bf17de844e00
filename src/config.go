package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"toruslife/src/universe"
)

//EnvOptions holds the options of the binary, it can be loaded from a JSON file
type EnvOptions struct {
	Interactive bool   `json:"interactive"`
	RandomData  bool   `json:"random"`
	Template    string `json:"template"`
	Engine      string `json:"engine"`
	MaxSteps    int    `json:"max_steps"`
	Seed        int64  `json:"seed"`
	Verbose     bool   `json:"verbose"`
	LogFile     string `json:"log_file"`
}

//DefaultEnvOptions returns the options used when neither a file nor flags say otherwise
func DefaultEnvOptions() EnvOptions {
	return EnvOptions{
		Engine:   universe.DefEngine,
		MaxSteps: universe.DefMaxSteps,
		Template: universe.DefTemplate,
	}
}

//runMaxSteps is the step limit handed to the universe, interactive runs are not limited
func (eo EnvOptions) runMaxSteps() int {
	if eo.Interactive {
		return 0
	}
	return eo.MaxSteps
}

//LoadEnvOptions loads options from a JSON file on top of the defaults
func LoadEnvOptions(filename string) (EnvOptions, error) {
	eo := DefaultEnvOptions()

	data, err := os.ReadFile(filename)
	if err != nil {
		return eo, errors.Wrapf(err, "failed to read config file %s", filename)
	}
	if err = json.Unmarshal(data, &eo); err != nil {
		return eo, errors.Wrapf(err, "failed to parse config file %s", filename)
	}
	return eo, nil
}

//overlay applies every value of cli that differs from def on top of base
//so command line flags win over the config file
func overlay(base EnvOptions, cli EnvOptions, def EnvOptions) EnvOptions {
	if cli.Interactive != def.Interactive {
		base.Interactive = cli.Interactive
	}
	if cli.RandomData != def.RandomData {
		base.RandomData = cli.RandomData
	}
	if cli.Template != def.Template {
		base.Template = cli.Template
	}
	if cli.Engine != def.Engine {
		base.Engine = cli.Engine
	}
	if cli.MaxSteps != def.MaxSteps {
		base.MaxSteps = cli.MaxSteps
	}
	if cli.Seed != def.Seed {
		base.Seed = cli.Seed
	}
	if cli.Verbose != def.Verbose {
		base.Verbose = cli.Verbose
	}
	if cli.LogFile != def.LogFile {
		base.LogFile = cli.LogFile
	}
	return base
}
