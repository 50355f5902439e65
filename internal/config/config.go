// Package config resolves and validates the processor configuration the
// DRC is initialized with (spec.md §7 "Init contract"): processor model,
// bus frequency, and bus/core clock ratio, validated against a
// manufacturer compatibility table and reduced to the PLL configuration
// value the core stores in HID1.
//
// The embedded-YAML-table approach — ship the compatibility data as a
// data file loaded through go:embed and gopkg.in/yaml.v3 rather than a
// hand-written switch — follows tinyrange-cc/cmd/ccapp/site_config.go's
// use of yaml.v3 for structured configuration.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// ProcessorModel identifies which 603e variant is being emulated. The PLL
// compatibility table differs per variant (original_source/ppc_drc/ppc_drc.c
// indexes a distinct table per PVR case), so it is part of the init
// contract rather than a compile-time constant.
type ProcessorModel string

const (
	Model603E  ProcessorModel = "603e"
	Model603EV ProcessorModel = "603ev"
	Model603R  ProcessorModel = "603r"
)

// Config is the init contract's input (spec.md §7): "config carries
// processor model (603e/603ev/603r), bus frequency, bus/core clock
// ratio."
type Config struct {
	Model ProcessorModel

	// BusFrequencyMHz is the external bus clock in whole megahertz; it
	// indexes a column of the compatibility table.
	BusFrequencyMHz int

	// ClockRatioTenths is the core/bus multiplier in tenths (e.g. 30 means
	// a 3.0x ratio), matching the original's bus_frequency_multiplier
	// field, which the original scales the same way before halving it
	// back into a table row index.
	ClockRatioTenths int
}

//go:embed pll_table.yaml
var pllTableYAML []byte

// pllTable is the decoded form of pll_table.yaml: one entry per
// (model, bus frequency, ratio) combination the hardware actually
// supports, each giving the PLL configuration value the original stores
// in HID1 bits 28-31. A combination absent from the table is invalid.
type pllTable struct {
	Entries []pllEntry `yaml:"entries"`
}

type pllEntry struct {
	Model            ProcessorModel `yaml:"model"`
	BusFrequencyMHz  int            `yaml:"bus_frequency_mhz"`
	ClockRatioTenths int            `yaml:"clock_ratio_tenths"`
	PLLConfig        uint32         `yaml:"pll_config"`
}

// Resolved is the result of validating a Config against the compatibility
// table: the PLL configuration value ready to be shifted into HID1, and
// the decrementer-update divider the original derives from the same
// multiplier (original_source/ppc_drc/ppc_drc.c: "ppc_dec_divider =
// multiplier * 4").
type Resolved struct {
	PLLConfig   uint32
	DecrDivider int
}

// HID1 returns the HID1 value to install: the PLL configuration packed
// into the top 4 bits, matching the original's `ppc.hid1 = pll_config <<
// 28`.
func (r Resolved) HID1() uint32 { return r.PLLConfig << 28 }

// Resolve validates cfg against the bus/multiplier compatibility table and
// returns the PLL configuration to install. An unsupported combination is
// one of the DRC's two startup-abort conditions (spec.md §7 "Unconfigured
// PLL: startup detects an unsupported bus/multiplier combination and
// aborts"); Resolve itself returns an error rather than aborting, leaving
// the abort decision to the caller wiring init().
func Resolve(cfg Config, log *slog.Logger) (Resolved, error) {
	if log == nil {
		log = slog.Default()
	}
	var tbl pllTable
	if err := yaml.Unmarshal(pllTableYAML, &tbl); err != nil {
		return Resolved{}, fmt.Errorf("config: decoding embedded PLL table: %w", err)
	}

	for _, e := range tbl.Entries {
		if e.Model == cfg.Model && e.BusFrequencyMHz == cfg.BusFrequencyMHz && e.ClockRatioTenths == cfg.ClockRatioTenths {
			log.Info("resolved PLL configuration",
				"model", cfg.Model, "bus_mhz", cfg.BusFrequencyMHz, "ratio_tenths", cfg.ClockRatioTenths,
				"pll_config", e.PLLConfig)
			return Resolved{
				PLLConfig:   e.PLLConfig,
				DecrDivider: cfg.ClockRatioTenths * 4 / 10,
			}, nil
		}
	}

	log.Error("unsupported bus/multiplier combination",
		"model", cfg.Model, "bus_mhz", cfg.BusFrequencyMHz, "ratio_tenths", cfg.ClockRatioTenths)
	return Resolved{}, fmt.Errorf("config: invalid bus/multiplier combination (model=%s, bus=%dMHz, ratio=%.1fx)",
		cfg.Model, cfg.BusFrequencyMHz, float64(cfg.ClockRatioTenths)/10.0)
}
