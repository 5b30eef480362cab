package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/naoina/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/you-not-fish/tfi/internal/compiler"
)

var dumpConfigCommand = cli.Command{
	Action:    dumpConfig,
	Name:      "dumpconfig",
	Usage:     "Show configuration values",
	ArgsUsage: "[<file.toml>]",
	Flags:     append(compilerFlags, serveFlags...),
	Category:  "MISCELLANEOUS COMMANDS",
	Description: `
The dumpconfig command prints the effective configuration: defaults, then
the --config file, then command line flags. Pass a file name to write the
configuration there instead of stdout.`,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type runConfig struct {
	Timeout duration // limit for running a compiled program; 0 disables it
}

type serveConfig struct {
	Addr        string
	CORSOrigins []string `toml:",omitempty"`
}

type tficConfig struct {
	Compiler compiler.Options
	Run      runConfig
	Serve    serveConfig
}

func defaultConfig() tficConfig {
	return tficConfig{
		Run:   runConfig{Timeout: duration(5 * time.Second)},
		Serve: serveConfig{Addr: "localhost:8547"},
	}
}

// duration is a time.Duration written as a string, e.g. "1m30s".
type duration time.Duration

func (d duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

func loadConfig(file string, cfg *tficConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the configuration and applies the command's flags.
func makeConfig(ctx *cli.Context) (tficConfig, error) {
	cfg := defaultConfig()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	setCompilerOptions(ctx, &cfg.Compiler)
	if ctx.IsSet(timeoutFlag.Name) {
		cfg.Run.Timeout = duration(ctx.Duration(timeoutFlag.Name))
	}
	if ctx.IsSet(addrFlag.Name) {
		cfg.Serve.Addr = ctx.String(addrFlag.Name)
	}
	if ctx.IsSet(corsFlag.Name) {
		cfg.Serve.CORSOrigins = ctx.StringSlice(corsFlag.Name)
	}
	return cfg, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}
