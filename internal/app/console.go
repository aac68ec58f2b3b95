// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/relabs-tech/liquid_gauge/internal/battery"
	"github.com/relabs-tech/liquid_gauge/internal/orientation"
	"github.com/relabs-tech/liquid_gauge/internal/render"
)

// asciiBackend prints frames to stdout, one character per pixel.
type asciiBackend struct{}

func (asciiBackend) Name() string { return "console" }

func (asciiBackend) Push(frame *render.Frame) error {
	var b strings.Builder
	side := frame.Side()
	// move the cursor home so the frame animates in place
	b.WriteString("\033[H\033[2J")
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			switch v := frame.At(x, y); {
			case v >= 255:
				b.WriteString("##")
			case v > 0:
				b.WriteString("~~")
			default:
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
	return nil
}

func (asciiBackend) Close() error { return nil }

// RunConsole runs the gauge without any hardware or broker: a mock
// acceleration source feeds the filter and a simulated battery slowly
// drains. Useful for eyeballing the simulation.
func RunConsole() error {
	gauge := NewGauge([]render.Backend{asciiBackend{}}, 50*time.Millisecond)

	// mock inputs
	done := make(chan struct{})
	go func() {
		src := orientation.NewMockSource()
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				sample, err := src.Next()
				if err != nil {
					continue
				}
				gauge.ApplySample(sample)
			}
		}
	}()

	go func() {
		level := 80
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				level--
				if level < 5 {
					level = 80
				}
				gauge.SetBattery(battery.Status{Level: level, Scale: 100, Source: "mock"})
			}
		}
	}()

	gauge.SetBattery(battery.Status{Level: 80, Scale: 100, Source: "mock"})
	gauge.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	close(done)
	gauge.Stop()
	return nil
}
