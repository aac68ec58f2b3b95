// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	arg "github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/liquid_gauge/internal/app"
)

var version = "No version provided"

var log = logrus.New()

type argSpec struct {
	LogLevel string `arg:"-l,--log-level" default:"warn" help:"Set the logging level (debug, info, warn, error)"`
}

func (argSpec) Version() string {
	return version
}

func main() {
	var args argSpec
	arg.MustParse(&args)
	app.SetLogLevel(args.LogLevel)

	log.Println("starting liquid-gauge (mock console)")
	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
