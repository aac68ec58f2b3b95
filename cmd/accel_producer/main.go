// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	arg "github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/liquid_gauge/internal/app"
	"github.com/relabs-tech/liquid_gauge/internal/config"
)

var version = "No version provided"

var log = logrus.New()

type argSpec struct {
	Config   string `arg:"-c,--config" default:"gauge_config.txt" help:"path to the configuration file"`
	LogLevel string `arg:"-l,--log-level" default:"info" help:"Set the logging level (debug, info, warn, error)"`
}

func (argSpec) Version() string {
	return version
}

func main() {
	var args argSpec
	arg.MustParse(&args)
	app.SetLogLevel(args.LogLevel)

	if err := config.InitGlobal(args.Config); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Println("starting liquid-gauge accel producer")
	if err := app.RunAccelProducer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
