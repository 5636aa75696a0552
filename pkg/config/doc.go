// Package config loads configuration from environment variables, with an
// optional .env file, using caarlos0/env tags.
//
// App aggregates the configs of every package mfad wires together:
//
//	cfg, err := config.LoadApp()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Load caches one value per type. Parse does not cache and suits tests.
package config
