package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	General  GeneralConfig  `toml:"general"`
	Server   ServerConfig   `toml:"server"`
	Gamma    GammaConfig    `toml:"gamma"`
	Schedule ScheduleConfig `toml:"schedule"`
	Backtest BacktestConfig `toml:"backtest"`
	Training TrainingConfig `toml:"training"`
}

type GeneralConfig struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
}

type ServerConfig struct {
	ListenAddr   string   `toml:"listen_addr"`
	ProxyMaxAge  Duration `toml:"proxy_max_age"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

type GammaConfig struct {
	BaseURL        string   `toml:"base_url"`
	RequestTimeout Duration `toml:"request_timeout"`
	MaxRetries     uint     `toml:"max_retries"`
	UserAgent      string   `toml:"user_agent"`
}

type ScheduleConfig struct {
	ScanInterval     Duration `toml:"scan_interval"`
	SnapshotInterval Duration `toml:"snapshot_interval"`
	ReportInterval   Duration `toml:"report_interval"`
	MarketsPerScan   int      `toml:"markets_per_scan"`
	CacheTTL         Duration `toml:"cache_ttl"`
}

type BacktestConfig struct {
	Seed int64 `toml:"seed"`
}

type TrainingConfig struct {
	MinVolume    float64 `toml:"min_volume"`
	MinLiquidity float64 `toml:"min_liquidity"`
	BaseXPReward int     `toml:"base_xp_reward"`
}

// Duration wraps time.Duration for TOML unmarshaling.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Load reads the TOML config at path over the defaults. A missing file is not
// an error; the defaults are used as-is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DBPath:   "./data/predictlearn.db",
			LogLevel: "info",
		},
		Server: ServerConfig{
			ListenAddr:   ":8080",
			ProxyMaxAge:  Duration{30 * time.Second},
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{75 * time.Second},
		},
		Gamma: GammaConfig{
			BaseURL:        "https://gamma-api.polymarket.com",
			RequestTimeout: Duration{60 * time.Second},
			MaxRetries:     3,
			UserAgent:      "predictlearn/1.0",
		},
		Schedule: ScheduleConfig{
			ScanInterval:     Duration{30 * time.Second},
			SnapshotInterval: Duration{15 * time.Minute},
			ReportInterval:   Duration{1 * time.Hour},
			MarketsPerScan:   200,
			CacheTTL:         Duration{10 * time.Minute},
		},
		Backtest: BacktestConfig{
			Seed: 0, // 0 seeds from the clock
		},
		Training: TrainingConfig{
			MinVolume:    1000,
			MinLiquidity: 500,
			BaseXPReward: 100,
		},
	}
}
