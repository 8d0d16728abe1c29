// Copyright 2025 The Cockroach Authors
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

package compact

import "unsafe"

// Option provides an interface to configure a table while it is being
// created (or reinitialized via Init). The same options are accepted by
// every mutable table flavor.
type Option interface {
	apply(cfg *tableConfig)
}

// tableConfig collects the settings shared by every mutable table flavor.
type tableConfig struct {
	loadFactor float64
	hash       hashFn
}

func makeTableConfig(options []Option) tableConfig {
	cfg := tableConfig{loadFactor: defaultLoadFactor}
	for _, op := range options {
		op.apply(&cfg)
	}
	if cfg.loadFactor <= 0 {
		panic(argErrorf("load factor must be positive: %v", cfg.loadFactor))
	}
	return cfg
}

type loadFactorOption float64

func (op loadFactorOption) apply(cfg *tableConfig) {
	cfg.loadFactor = float64(op)
}

// WithLoadFactor is an option to specify the entries-per-bucket ratio at
// which a table doubles its bucket array, 1.0 by default. Lower values
// shorten collision chains at the cost of a larger bucket array. A
// non-positive value panics with ArgumentError when applied.
func WithLoadFactor(loadFactor float64) Option {
	return loadFactorOption(loadFactor)
}

type hashOption struct {
	hash hashFn
}

func (op hashOption) apply(cfg *tableConfig) {
	cfg.hash = op.hash
}

// WithHash is an option to specify the hash function to use instead of the
// runtime's. K must be the key type (for maps) or element type (for sets
// and multisets) of the table the option is applied to.
func WithHash[K comparable](hash func(key *K, seed uintptr) uintptr) Option {
	return hashOption{hash: *(*hashFn)(noescape(unsafe.Pointer(&hash)))}
}
