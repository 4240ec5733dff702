// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// openlcdd runs the LCD backpack firmware on a host: it opens the settings
// store and the serial transport, brings up the configured panel and pumps
// the command stream until interrupted.
//
// Without a config file it reads stdin and emulates the panel on the
// terminal, which is handy for trying out the protocol:
//
//	printf '|\x2dHello' | openlcdd
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/openlcd"
	"github.com/GermanBionicSystems/openlcd/charlcd"
	"github.com/GermanBionicSystems/openlcd/command"
	"github.com/GermanBionicSystems/openlcd/eeprom"
	"github.com/GermanBionicSystems/openlcd/mcp4725"
	"github.com/GermanBionicSystems/openlcd/settings"
	"github.com/GermanBionicSystems/openlcd/termlcd"
	"github.com/GermanBionicSystems/openlcd/uart"
)

type panelConfig struct {
	// Driver selects the panel: "term" (default) or "gpio".
	Driver string `yaml:"driver"`
	// Pin names for the gpio driver, resolved through gpioreg.
	RS        string   `yaml:"rs"`
	Enable    string   `yaml:"enable"`
	Data      []string `yaml:"data"`
	Backlight []string `yaml:"backlight"`
	// I2C names the bus carrying the contrast DAC; empty disables it.
	I2C string `yaml:"i2c"`
}

type config struct {
	// Device is the serial port to listen on; empty means stdin.
	Device string `yaml:"device"`
	// EEPROM is the path of the settings image.
	EEPROM string      `yaml:"eeprom"`
	Panel  panelConfig `yaml:"panel"`
}

func loadConfig(path string) (config, error) {
	cfg := config{EEPROM: "openlcd.eeprom"}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func buildPanel(cfg panelConfig, st *settings.Settings) (command.Display, error) {
	switch cfg.Driver {
	case "", "term":
		return termlcd.New(&termlcd.Opts{Rows: int(st.Lines), Cols: int(st.Width)}), nil
	case "gpio":
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		rs := gpioreg.ByName(cfg.RS)
		if rs == nil {
			return nil, fmt.Errorf("no pin named %q", cfg.RS)
		}
		enable := gpioreg.ByName(cfg.Enable)
		if enable == nil {
			return nil, fmt.Errorf("no pin named %q", cfg.Enable)
		}
		data := make([]gpio.PinIO, len(cfg.Data))
		for i, name := range cfg.Data {
			if data[i] = gpioreg.ByName(name); data[i] == nil {
				return nil, fmt.Errorf("no pin named %q", name)
			}
		}
		var backlight [3]gpio.PinOut
		for i, name := range cfg.Backlight {
			if i >= len(backlight) || name == "" {
				continue
			}
			p := gpioreg.ByName(name)
			if p == nil {
				return nil, fmt.Errorf("no pin named %q", name)
			}
			backlight[i] = p
		}
		var dac *mcp4725.Dev
		if cfg.I2C != "" {
			bus, err := i2creg.Open(cfg.I2C)
			if err != nil {
				return nil, err
			}
			if dac, err = mcp4725.New(bus, mcp4725.DefaultAddress, 3300*physic.MilliVolt); err != nil {
				return nil, err
			}
		}
		opts := &charlcd.Opts{
			Rows:      int(st.Lines),
			Cols:      int(st.Width),
			Backlight: backlight,
			Contrast:  dac,
		}
		return charlcd.New(charlcd.PinGroup(data...), rs, enable, opts)
	default:
		return nil, fmt.Errorf("unknown panel driver %q", cfg.Driver)
	}
}

func run(log zerolog.Logger, confPath string) error {
	cfg, err := loadConfig(confPath)
	if err != nil {
		return err
	}

	store, err := eeprom.OpenFile(cfg.EEPROM, settings.StoreSize)
	if err != nil {
		return err
	}
	defer store.Close()

	// Pre-load the settings so the port opens at the persisted rate and the
	// panel comes up with the persisted geometry.
	st := &settings.Settings{}
	settings.NewRegistry(store, st).Load()
	log.Info().
		Int("baud", st.Baud.Rate()).
		Uint8("lines", st.Lines).
		Uint8("width", st.Width).
		Msg("settings loaded")

	disp, err := buildPanel(cfg.Panel, st)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if cfg.Device != "" {
		port, err := uart.Open(cfg.Device, st.Baud)
		if err != nil {
			return err
		}
		defer port.Close()
		in = port
		log.Info().Str("device", cfg.Device).Msg("listening")
	}

	b := openlcd.New(store, disp, in)
	if err := b.Boot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	err = b.Run(ctx)
	if n := b.Dropped(); n > 0 {
		log.Warn().Int("bytes", n).Msg("receive buffer overflowed")
	}
	if werr := store.Err(); werr != nil {
		log.Warn().Err(werr).Msg("settings image writes failed")
	}
	return err
}

func main() {
	confPath := flag.String("config", "/etc/openlcdd.yaml", "configuration file")
	flag.Parse()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(log, *confPath); err != nil {
		log.Fatal().Err(err).Msg("openlcdd")
	}
}
