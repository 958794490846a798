// Copyright 2026 The GroupBuilder Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package seating

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Config is the file-loadable configuration surface: the knobs an operator
// tunes without recompiling. Zero values mean "use the documented default".
type Config struct {
	// SolverNumWorkers is the number of parallel search workers per solve.
	SolverNumWorkers int `yaml:"solver_num_workers"`
	// PairingWindowSize is the maximum session distance at which a repeat
	// meeting is penalized.
	PairingWindowSize int `yaml:"pairing_window_size"`
	// MaxTimeSeconds is the per-call wall-clock budget.
	MaxTimeSeconds int `yaml:"max_time_seconds"`
	// BatchSize is the number of sessions solved per incremental batch.
	BatchSize int `yaml:"batch_size"`
	// UseIncremental forces incremental solving on or off; unset means
	// auto (incremental iff sessions >= 4).
	UseIncremental *bool `yaml:"use_incremental"`
}

// LoadConfig reads a YAML config file from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config file")
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config bytes.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	return c, nil
}

// Options converts a Config into per-call Options, with zero values left
// for WithDefaults to fill.
func (c Config) Options() Options {
	return Options{
		MaxTimeSeconds: c.MaxTimeSeconds,
		UseIncremental: c.UseIncremental,
		BatchSize:      c.BatchSize,
		PairingWindow:  c.PairingWindowSize,
		Workers:        c.SolverNumWorkers,
	}
}
