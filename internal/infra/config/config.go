// internal/infra/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix は環境変数のプレフィックスです（例: MASTER_EDITION_RPC_URL）。
const EnvPrefix = "MASTER_EDITION"

// Config keys
const (
	KeyMintConfigDir       = "mint_config_dir"
	KeySolanaCLIConfig     = "solana_cli_config"
	KeyRPCURL              = "rpc_url"
	KeyPayerSecret         = "payer_secret"
	KeyProgramDir          = "program_dir"
	KeyProgramName         = "program_name"
	KeyCommitment          = "commitment"
	KeyComputeUnitLimit    = "compute_unit_limit"
	KeyComputeUnitPrice    = "compute_unit_price"
	KeyConfirmTimeout      = "confirm_timeout"
	KeyConfirmPollInterval = "confirm_poll_interval"
	KeyLogLevel            = "log_level"
	KeyLogFormat           = "log_format"
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	// master_editions/<name>.json のディレクトリ
	MintConfigDir string

	// Solana CLI の config.yml（空なら ~/.config/solana/cli/config.yml）
	SolanaCLIConfig string
	// 空でなければ config.yml の json_rpc_url より優先
	RPCURL string
	// 空でなければ keypair_path の代わりに Secret Manager から payer を読む
	PayerSecret string

	ProgramDir  string
	ProgramName string

	// 空なら config.yml の commitment、それも無ければ confirmed
	Commitment          string
	ComputeUnitLimit    uint32
	ComputeUnitPrice    uint64
	ConfirmTimeout      time.Duration
	ConfirmPollInterval time.Duration

	LogLevel  string
	LogFormat string
}

// Load は環境変数を読み込み Config を返します。
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads the config through v, applying defaults and env binding.
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyMintConfigDir, "./master_editions")
	v.SetDefault(KeySolanaCLIConfig, "")
	v.SetDefault(KeyRPCURL, "")
	v.SetDefault(KeyPayerSecret, "")
	v.SetDefault(KeyProgramDir, "./program/target/deploy")
	v.SetDefault(KeyProgramName, "rust_boiler")
	v.SetDefault(KeyCommitment, "")
	v.SetDefault(KeyComputeUnitLimit, 1_000_000)
	v.SetDefault(KeyComputeUnitPrice, 0)
	v.SetDefault(KeyConfirmTimeout, 60*time.Second)
	v.SetDefault(KeyConfirmPollInterval, 500*time.Millisecond)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	cfg := &Config{
		MintConfigDir:       strings.TrimSpace(v.GetString(KeyMintConfigDir)),
		SolanaCLIConfig:     strings.TrimSpace(v.GetString(KeySolanaCLIConfig)),
		RPCURL:              strings.TrimSpace(v.GetString(KeyRPCURL)),
		PayerSecret:         strings.TrimSpace(v.GetString(KeyPayerSecret)),
		ProgramDir:          strings.TrimSpace(v.GetString(KeyProgramDir)),
		ProgramName:         strings.TrimSpace(v.GetString(KeyProgramName)),
		Commitment:          strings.ToLower(strings.TrimSpace(v.GetString(KeyCommitment))),
		ComputeUnitLimit:    v.GetUint32(KeyComputeUnitLimit),
		ComputeUnitPrice:    v.GetUint64(KeyComputeUnitPrice),
		ConfirmTimeout:      v.GetDuration(KeyConfirmTimeout),
		ConfirmPollInterval: v.GetDuration(KeyConfirmPollInterval),
		LogLevel:            strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:           strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and required fields.
func (c *Config) Validate() error {
	switch c.Commitment {
	case "", "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("config: commitment must be processed, confirmed or finalized, got %q", c.Commitment)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("config: log format must be 'json' or 'console', got %q", c.LogFormat)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	if c.MintConfigDir == "" {
		return fmt.Errorf("config: mint config dir is empty")
	}
	if c.ProgramDir == "" || c.ProgramName == "" {
		return fmt.Errorf("config: program dir and name are required")
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("config: confirm timeout must be positive")
	}
	if c.ConfirmPollInterval <= 0 {
		return fmt.Errorf("config: confirm poll interval must be positive")
	}
	return nil
}
