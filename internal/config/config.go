package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Clinic struct {
		Name     string `yaml:"name"`
		Location string `yaml:"location"`
		Timezone string `yaml:"timezone"`
	} `yaml:"clinic"`

	Submit struct {
		EndpointURL    string  `yaml:"endpoint_url"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RatePerSecond  float64 `yaml:"rate_per_second"`
		Burst          int     `yaml:"burst"`
	} `yaml:"submit"`

	Conversation struct {
		TypingDelayMs         int `yaml:"typing_delay_ms"`
		ResetDelayMs          int `yaml:"reset_delay_ms"`
		SessionTimeoutMinutes int `yaml:"session_timeout_minutes"`
	} `yaml:"conversation"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		Debug    bool   `yaml:"debug"`
	} `yaml:"telegram"`

	Webchat struct {
		ListenAddress string `yaml:"listen_address"`
	} `yaml:"webchat"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Clinic.Name == "" {
		cfg.Clinic.Name = "DentalCare Pro"
	}
	if cfg.Clinic.Location == "" {
		cfg.Clinic.Location = cfg.Clinic.Name
	}
	if cfg.Conversation.TypingDelayMs == 0 {
		cfg.Conversation.TypingDelayMs = 1000
	}
	if cfg.Conversation.ResetDelayMs == 0 {
		cfg.Conversation.ResetDelayMs = 1500
	}

	return &cfg, nil
}

func (c *Config) TypingDelay() time.Duration {
	if c.Conversation.TypingDelayMs < 0 {
		return 0
	}
	return time.Duration(c.Conversation.TypingDelayMs) * time.Millisecond
}

func (c *Config) ResetDelay() time.Duration {
	if c.Conversation.ResetDelayMs < 0 {
		return 0
	}
	return time.Duration(c.Conversation.ResetDelayMs) * time.Millisecond
}

func (c *Config) SessionTimeout() time.Duration {
	if c.Conversation.SessionTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Conversation.SessionTimeoutMinutes) * time.Minute
}

func (c *Config) SubmitTimeout() time.Duration {
	if c.Submit.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Submit.TimeoutSeconds) * time.Second
}
