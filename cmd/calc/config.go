// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	log "github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/probechain/probe-calc/console"
	"github.com/probechain/probe-calc/engine"
	"github.com/probechain/probe-calc/lang/interp"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type engineConfig struct {
	CacheSize int
}

type logConfig struct {
	Level string `toml:",omitempty"`
	JSON  bool
}

type calcConfig struct {
	Interpreter interp.Options
	Engine      engineConfig
	Console     console.Config
	Log         logConfig
}

func defaultConfig() calcConfig {
	return calcConfig{
		Interpreter: interp.DefaultOptions,
		Engine:      engineConfig{CacheSize: engine.DefaultConfig.CacheSize},
		Console:     console.DefaultConfig,
		Log:         logConfig{Level: log.WarnLevel.String()},
	}
}

// buildEngineConfig returns the engine settings assembled from the file sections.
func (c *calcConfig) buildEngineConfig() *engine.Config {
	return &engine.Config{
		CacheSize:   c.Engine.CacheSize,
		Interpreter: c.Interpreter,
	}
}

func loadConfig(file string, cfg *calcConfig) error {
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

// makeConfig loads defaults, then the config file, then flag overrides.
func makeConfig(ctx *cli.Context) (calcConfig, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if ctx.GlobalIsSet(maxStepsFlag.Name) {
		cfg.Interpreter.MaxSteps = ctx.GlobalUint64(maxStepsFlag.Name)
	}
	if ctx.GlobalIsSet(cacheSizeFlag.Name) {
		cfg.Engine.CacheSize = ctx.GlobalInt(cacheSizeFlag.Name)
	}
	if ctx.GlobalIsSet(historyFlag.Name) {
		cfg.Console.HistoryFile = ctx.GlobalString(historyFlag.Name)
	}
	if ctx.GlobalBool(noColorFlag.Name) {
		cfg.Console.Color = false
	}
	if ctx.GlobalIsSet(verbosityFlag.Name) {
		cfg.Log.Level = log.Level(ctx.GlobalInt(verbosityFlag.Name)).String()
	}
	if cfg.Engine.CacheSize < 0 {
		return cfg, fmt.Errorf("invalid cache size %d", cfg.Engine.CacheSize)
	}
	return cfg, nil
}

// appConfig is the configuration assembled by prepare.
var appConfig *calcConfig

// prepare builds the configuration once per invocation and applies its
// logging section. It runs as the app's Before hook.
func prepare(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		log.WithField("file", file).Info("Loaded configuration")
	}
	appConfig = &cfg
	return nil
}

// currentConfig returns the configuration built by prepare.
func currentConfig(ctx *cli.Context) (*calcConfig, error) {
	if appConfig == nil {
		if err := prepare(ctx); err != nil {
			return nil, err
		}
	}
	return appConfig, nil
}

// setupLogging applies the Log section to the standard logrus logger.
func setupLogging(cfg logConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	if cfg.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := currentConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(cfg)
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
	dump.Write(out)

	return nil
}
