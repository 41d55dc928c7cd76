package config

// DefaultConfig returns configuration with every default from
func DefaultConfig() *Config {
	return &Config{
		Digitization: DigitizationConfig{
			EndpointURL:    "${BOOKFORGE_DIGITIZATION_URL}",
			APIKey:         "${BOOKFORGE_DIGITIZATION_API_KEY}",
			PageCap:        100,
			TimeoutSeconds: 120,
		},
		LLM: LLMConfig{
			EndpointURL:    "${BOOKFORGE_LLM_URL}",
			APIKey:         "${BOOKFORGE_LLM_API_KEY}",
			Model:          "gpt-4o-mini",
			Temperature:    0.3,
			TimeoutSeconds: 60,
			RetryMax:       3,
		},
		Pipeline: PipelineConfig{
			WorkerPoolSize:       3,
			CommitCadencePages:   10,
			PageTruncationLength: 4000,
			ChapterSkipMinPages:  3,
		},
		Paths: PathsConfig{
			CacheRoot:   "", // resolved from home.Dir when empty
			ReportsRoot: "", // not read; reports always go to home.Dir's reports/
		},
	}
}
