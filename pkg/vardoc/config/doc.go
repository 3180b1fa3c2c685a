/*
Package config provides type-safe configuration extraction from map[string]any,
plus translation into vardoc engine options.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
This is useful for extracting configuration values from YAML/JSON structures
without verbose type assertions and nil checks.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "max_depth": 16,
	    "metrics":   true,
	})

	depth := cfg.Int("max_depth", 10)    // 16
	metrics := cfg.Bool("metrics", false) // true
	missing := cfg.String("missing", "x") // "x"

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("vardoc.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	doc, err := vardoc.New(tree, cfg.EngineOptions()...)

EngineOptions recognizes the context, max_depth, logging, metrics, and
tracing keys; anything else is ignored, so engine settings can live
inside a larger application config.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation. However, if the original map is modified
externally, behavior is undefined.
*/
package config
