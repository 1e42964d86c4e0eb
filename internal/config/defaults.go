package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:5000"
	}
	if cfg.Backend.TimeoutSeconds == 0 {
		cfg.Backend.TimeoutSeconds = 30
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 10
	}
	if cfg.Search.ParserMode == "" {
		cfg.Search.ParserMode = "llm"
	}
	if cfg.Search.HighlightPolicy == "" {
		cfg.Search.HighlightPolicy = "original"
	}
}
