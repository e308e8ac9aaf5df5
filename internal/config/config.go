package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env     string `env:"PROJEXIS_ENV" env-default:"prod"`
	DataDir string `env:"PROJEXIS_DATA_DIR"`
	LogFile string `env:"PROJEXIS_LOG_FILE"`
	API     APIConfig
	Poll    PollConfig
}

type APIConfig struct {
	URL     string        `env:"PROJEXIS_API_URL" env-default:"http://localhost:5000/api"`
	Timeout time.Duration `env:"PROJEXIS_HTTP_TIMEOUT" env-default:"15s"`
}

// PollConfig holds the background refresh intervals
type PollConfig struct {
	Mentions      time.Duration `env:"PROJEXIS_MENTION_POLL" env-default:"15s"`
	Conversations time.Duration `env:"PROJEXIS_CONVERSATIONS_POLL" env-default:"10s"`
	Messages      time.Duration `env:"PROJEXIS_MESSAGES_POLL" env-default:"5s"`
}
