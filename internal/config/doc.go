// Package config loads, normalizes, and validates printq configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and ensures the directories the daemon needs
// exist before the store or workers touch them. The Config type centralizes
// every knob the daemon and CLI need: storage paths, worker polling cadence,
// the printer command, generation inputs, and notification settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
