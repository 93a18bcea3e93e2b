// Package config provides configuration management for the library service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults live on the struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: local item store connection (sqlite or mysql)
//   - Storage: S3/MinIO credentials and the catalog bucket
//   - Log: Logging level and format
//   - Account: remote account service endpoint and token
//   - Sync: catalog source selection, retry and batch settings
//
// Every section validates itself with ozzo-validation; LoadConfig rejects an
// invalid configuration.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
