// Package config loads engine defaults for seqkit pipelines.
//
// It uses Viper to read an optional YAML file and environment variables,
// after loading an optional .env file with godotenv. Environment variables
// override file values using underscore-separated paths
// (e.g., SAMPLE_BUDGET_FACTOR sets sample.budget_factor).
//
// # Usage
//
//	var cfg config.EngineConfig
//	if err := config.LoadConfig("seqkit", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	pipeline.Configure(cfg)
package config
