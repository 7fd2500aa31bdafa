package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Logging     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Exchanges struct {
		// Priority order; the first healthy exchange serves each call.
		Priority []string      `yaml:"priority"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"exchanges"`
	Scan struct {
		Timeframes  []string      `yaml:"timeframes"`
		TopSymbols  int           `yaml:"top_symbols"`
		Interval    time.Duration `yaml:"interval"`
		Concurrency int           `yaml:"concurrency"`
		KlineLimit  int           `yaml:"kline_limit"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"scan"`
	Signal struct {
		RSIOversold       float64 `yaml:"rsi_oversold"`
		RSIOverbought     float64 `yaml:"rsi_overbought"`
		FundingExtreme    float64 `yaml:"funding_extreme"`
		FundingModerate   float64 `yaml:"funding_moderate"`
		LiqMinNotable     float64 `yaml:"liq_min_notable"`
		LiqRatio          float64 `yaml:"liq_ratio"`
		TechnicalWeight   float64 `yaml:"technical_weight"`
		FundingWeight     float64 `yaml:"funding_weight"`
		LiquidationWeight float64 `yaml:"liquidation_weight"`
		MinScore          float64 `yaml:"min_score"`
		DetailedThreshold float64 `yaml:"detailed_threshold"`
		TopN              int     `yaml:"top_n"`
		MaxDetailed       int     `yaml:"max_detailed"`
	} `yaml:"signal"`
	Liquidation struct {
		Mode           string        `yaml:"mode"` // stream or trades
		Window         time.Duration `yaml:"window"`
		MinNotional    float64       `yaml:"min_notional"`
		FetchLimit     int           `yaml:"fetch_limit"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"liquidation"`
	Telegram struct {
		Enabled  bool          `yaml:"enabled"`
		BotToken string        `yaml:"bot_token"`
		ChatID   string        `yaml:"chat_id"`
		Cooldown time.Duration `yaml:"cooldown"`
	} `yaml:"telegram"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Secrets in particular are expected to come from the environment.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("SCAN_TIMEFRAMES"); v != "" {
		c.Scan.Timeframes = strings.Split(v, ",")
	}
	if v := os.Getenv("SCAN_TOP_SYMBOLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.TopSymbols = n
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Exchanges.Priority) == 0 {
		c.Exchanges.Priority = []string{"binance", "bybit", "okx"}
	}
	if c.Exchanges.Timeout == 0 {
		c.Exchanges.Timeout = 15 * time.Second
	}
	if len(c.Scan.Timeframes) == 0 {
		c.Scan.Timeframes = []string{"1h", "4h"}
	}
	if c.Scan.TopSymbols == 0 {
		c.Scan.TopSymbols = 20
	}
	if c.Scan.Interval == 0 {
		c.Scan.Interval = 15 * time.Minute
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = 8
	}
	if c.Scan.KlineLimit == 0 {
		c.Scan.KlineLimit = 100
	}
	if c.Scan.Timeout == 0 {
		c.Scan.Timeout = 5 * time.Minute
	}
	if c.Signal.RSIOversold == 0 {
		c.Signal.RSIOversold = 30
	}
	if c.Signal.RSIOverbought == 0 {
		c.Signal.RSIOverbought = 70
	}
	if c.Signal.FundingExtreme == 0 {
		c.Signal.FundingExtreme = 0.001
	}
	if c.Signal.FundingModerate == 0 {
		c.Signal.FundingModerate = 0.0005
	}
	if c.Signal.LiqMinNotable == 0 {
		c.Signal.LiqMinNotable = 1_000_000
	}
	if c.Signal.LiqRatio == 0 {
		c.Signal.LiqRatio = 2.0
	}
	if c.Signal.TechnicalWeight == 0 {
		c.Signal.TechnicalWeight = 5.0
	}
	if c.Signal.FundingWeight == 0 {
		c.Signal.FundingWeight = 3.0
	}
	if c.Signal.LiquidationWeight == 0 {
		c.Signal.LiquidationWeight = 2.0
	}
	if c.Signal.MinScore == 0 {
		c.Signal.MinScore = 7.0
	}
	if c.Signal.DetailedThreshold == 0 {
		c.Signal.DetailedThreshold = 8.5
	}
	if c.Signal.TopN == 0 {
		c.Signal.TopN = 5
	}
	if c.Signal.MaxDetailed == 0 {
		c.Signal.MaxDetailed = 3
	}
	if c.Liquidation.Mode == "" {
		c.Liquidation.Mode = "trades"
	}
	if c.Liquidation.Window == 0 {
		c.Liquidation.Window = 15 * time.Minute
	}
	if c.Liquidation.MinNotional == 0 {
		c.Liquidation.MinNotional = 100_000
	}
	if c.Liquidation.FetchLimit == 0 {
		c.Liquidation.FetchLimit = 1000
	}
	if c.Liquidation.ReconnectDelay == 0 {
		c.Liquidation.ReconnectDelay = 5 * time.Second
	}
	if c.Liquidation.PingInterval == 0 {
		c.Liquidation.PingInterval = 30 * time.Second
	}
	if c.Telegram.Cooldown == 0 {
		c.Telegram.Cooldown = 4 * time.Hour
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	for _, ex := range c.Exchanges.Priority {
		switch ex {
		case "binance", "bybit", "okx":
		default:
			return fmt.Errorf("unknown exchange %q in exchanges.priority", ex)
		}
	}
	if c.Liquidation.Mode != "stream" && c.Liquidation.Mode != "trades" {
		return fmt.Errorf("liquidation.mode must be 'stream' or 'trades', got '%s'", c.Liquidation.Mode)
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id are required when telegram is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka is enabled")
	}
	if c.Signal.MinScore < 0 || c.Signal.MinScore > 10 {
		return fmt.Errorf("signal.min_score must be in [0,10]")
	}
	return nil
}
