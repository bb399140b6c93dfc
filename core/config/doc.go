// Package config provides configuration management for the inventory-sync service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port)
//   - Database: MySQL connection details
//   - Sync: provider API credentials, product list, rate limit and cadences
//   - Log: Logging level and format
//
// Environment variables map to nested keys with underscores, e.g.
// SYNC_API_KEY -> sync.api_key, DATABASE_HOST -> database.host.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
