package config

import (
	"bytes"
	_ "embed"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	Log        LogConfig       `mapstructure:"log"`
	HTTP       HTTPConfig      `mapstructure:"http"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	Broadcast  BroadcastConfig `mapstructure:"broadcast"`
	Joke       JokeConfig      `mapstructure:"joke"`
	Messenger  MessengerConfig `mapstructure:"messenger"`
	Worker     WorkerConfig    `mapstructure:"worker"`
}

// ---- Leaf structs ----

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	ReportTTL   time.Duration `mapstructure:"report_ttl"`
}

type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	Topic          string   `mapstructure:"topic"`
	GroupID        string   `mapstructure:"group_id"`
	MinBytes       int      `mapstructure:"min_bytes"`
	MaxBytes       int      `mapstructure:"max_bytes"`
	CommitInterval int      `mapstructure:"commit_interval_ms"`
}

// BroadcastConfig drives the joke-of-the-day run.
type BroadcastConfig struct {
	CountryCode   string        `mapstructure:"country_code"` // partition key; empty = every country
	Topic         string        `mapstructure:"topic"`
	Invoker       string        `mapstructure:"invoker"` // kafka | local
	Schedule      string        `mapstructure:"schedule"`
	Timezone      string        `mapstructure:"timezone"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	InvokeTimeout time.Duration `mapstructure:"invoke_timeout"`
}

type JokeConfig struct {
	Source  string        `mapstructure:"source"` // http | static
	URL     string        `mapstructure:"url"`
	Field   string        `mapstructure:"field"`
	Timeout time.Duration `mapstructure:"timeout"`
	Static  []string      `mapstructure:"static"`
}

type BreakerConfig struct {
	FailThreshold int `mapstructure:"fail_threshold" yaml:"fail_threshold"`
	OpenForMs     int `mapstructure:"open_for_ms"    yaml:"open_for_ms"`
}

type MessengerConfig struct {
	From      string           `mapstructure:"from"`
	Providers []ProviderConfig `mapstructure:"providers"`
}

type ProviderConfig struct {
	Name      string        `mapstructure:"name"`
	Kind      string        `mapstructure:"kind"` // twilio | telnyx | http
	Enabled   bool          `mapstructure:"enabled"`
	BaseURL   string        `mapstructure:"base_url"`
	Path      string        `mapstructure:"path"`
	AccountID string        `mapstructure:"account_id"`
	Token     string        `mapstructure:"token"`
	TimeoutMs int           `mapstructure:"timeout_ms"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

type WorkerConfig struct {
	Count       int           `mapstructure:"count"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (JOKECAST_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (JOKECAST_*), e.g. JOKECAST_BROADCAST_COUNTRY_CODE
	v.SetEnvPrefix("JOKECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
