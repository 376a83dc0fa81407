package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory = "memory"
	DriverMemDB  = "memdb"

	defaultListenAddr      = ":8000"
	defaultShutdownTimeout = 10 * time.Second
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig は HTTP / gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr         string        `yaml:"listen_addr"`
	GRPCListenAddr     string        `yaml:"grpc_listen_addr"`
	ShutdownTimeout    time.Duration `yaml:"-"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout"`
}

// StoreConfig はワーカーテーブルの実装選択です。
type StoreConfig struct {
	Driver   string `yaml:"driver"`
	SkipSeed bool   `yaml:"skip_seed"`
}

// LogConfig はログ出力に関する設定です。
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default は設定ファイルが無い場合に使う値を返します。
func Default() *Config {
	cfg := &Config{}
	// 既定値のみなので失敗しない
	_ = cfg.validateAndNormalize()
	return cfg
}

// Load は指定されたパスから設定ファイルを読み込みます。path が空の場合は Default を返します。
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read file %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "config: parse yaml")
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if err := c.Server.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Store.validateAndNormalize(); err != nil {
		return err
	}
	return c.Log.validateAndNormalize()
}

func (s *ServerConfig) validateAndNormalize() error {
	if s.ListenAddr == "" {
		s.ListenAddr = defaultListenAddr
	}
	if s.GRPCListenAddr != "" && s.GRPCListenAddr == s.ListenAddr {
		return errors.New("config: server.grpc_listen_addr must differ from server.listen_addr")
	}

	timeout, err := parseDurationAllowEmpty(s.ShutdownTimeoutRaw)
	if err != nil {
		return errors.Wrap(err, "config: server.shutdown_timeout")
	}
	if timeout < 0 {
		return errors.New("config: server.shutdown_timeout must not be negative")
	}
	if timeout == 0 {
		timeout = defaultShutdownTimeout
	}
	s.ShutdownTimeout = timeout

	return nil
}

func (s *StoreConfig) validateAndNormalize() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case "":
		s.Driver = DriverMemory
	case DriverMemory, DriverMemDB:
	default:
		return errors.Errorf("config: store.driver %q is not supported", s.Driver)
	}
	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	switch l.Level {
	case "":
		l.Level = "info"
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("config: log.level %q is not supported", l.Level)
	}

	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	switch l.Format {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return errors.Errorf("config: log.format %q is not supported", l.Format)
	}
	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}
