package config

// Config holds bookforge configuration. Every field corresponds to one
// enumerated configuration item in
type Config struct {
	Digitization DigitizationConfig `mapstructure:"digitization" yaml:"digitization"`
	LLM          LLMConfig          `mapstructure:"llm" yaml:"llm"`
	Pipeline     PipelineConfig     `mapstructure:"pipeline" yaml:"pipeline"`
	Paths        PathsConfig        `mapstructure:"paths" yaml:"paths"`
}

// DigitizationConfig configures the external Document Digitization service
// client (internal/digitization). PageCap is not read by the client, which
// splits at its own fixed digitization.PageCap of 100 pages.
type DigitizationConfig struct {
	EndpointURL    string `mapstructure:"endpoint_url" yaml:"endpoint_url"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`
	PageCap        int    `mapstructure:"page_cap" yaml:"page_cap"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// LLMConfig configures the external chat-completions client
// (internal/providers).
type LLMConfig struct {
	EndpointURL    string  `mapstructure:"endpoint_url" yaml:"endpoint_url"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`
	Model          string  `mapstructure:"model" yaml:"model"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RetryMax       int     `mapstructure:"retry_max" yaml:"retry_max"`
}

// PipelineConfig configures the extraction orchestrator
// (internal/orchestrator).
type PipelineConfig struct {
	WorkerPoolSize       int `mapstructure:"worker_pool_size" yaml:"worker_pool_size"`
	CommitCadencePages   int `mapstructure:"commit_cadence_pages" yaml:"commit_cadence_pages"`
	PageTruncationLength int `mapstructure:"page_truncation_length" yaml:"page_truncation_length"`
	ChapterSkipMinPages  int `mapstructure:"chapter_skip_min_pages" yaml:"chapter_skip_min_pages"`
}

// PathsConfig configures where the cache lives on disk. ReportsRoot is not
// read: reports are always written to the home directory's reports/.
type PathsConfig struct {
	CacheRoot   string `mapstructure:"cache_root" yaml:"cache_root"`
	ReportsRoot string `mapstructure:"reports_root" yaml:"reports_root"`
}
