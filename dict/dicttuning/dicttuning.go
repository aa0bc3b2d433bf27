// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package dicttuning holds the YAML-loadable knobs governing resize and
// rehash behavior across a process's dicts, the same way ocprometheus's
// Config centralizes its own tunables rather than scattering constants.
package dicttuning

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Tuning is the representation of a dict tuning YAML config file.
type Tuning struct {
	// InitialExp is the starting table-size exponent new dicts use absent
	// an explicit override.
	InitialExp int `yaml:"initial-exp,omitempty"`

	// ForceResizeRatio is the load-factor multiplier applied while the
	// process-wide resize state is ResizeAvoid.
	ForceResizeRatio int `yaml:"force-resize-ratio,omitempty"`

	// RehashStepBuckets is how many non-empty buckets an incremental
	// rehash migrates per mutating operation.
	RehashStepBuckets int `yaml:"rehash-step-buckets,omitempty"`

	// BackgroundRehashMicros is the time budget dictmgr's scheduler
	// donates to a shard's rehash on each background pass.
	BackgroundRehashMicros int64 `yaml:"background-rehash-micros,omitempty"`
}

// Default returns the tuning new dicts use when no config file is loaded.
func Default() Tuning {
	return Tuning{
		InitialExp:             4,
		ForceResizeRatio:       4,
		RehashStepBuckets:      1,
		BackgroundRehashMicros: 1000,
	}
}

// Load reads and parses a Tuning from a YAML file at path, starting from
// Default so a config only needs to mention the knobs it overrides.
func Load(path string) (Tuning, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, err
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, err
	}
	return t, nil
}
