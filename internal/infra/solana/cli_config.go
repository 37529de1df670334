// internal/infra/solana/cli_config.go
package solana

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"gopkg.in/yaml.v2"

	med "github.com/matthewrx/create-master-edition/internal/domain/masteredition"
)

// CLIConfig is the subset of the Solana CLI config.yml this tool reads.
// The file belongs to the Solana CLI; it is never written here.
type CLIConfig struct {
	JSONRPCURL   string `yaml:"json_rpc_url"`
	WebsocketURL string `yaml:"websocket_url"`
	KeypairPath  string `yaml:"keypair_path"`
	Commitment   string `yaml:"commitment"`
}

// DefaultCLIConfigPath returns ~/.config/solana/cli/config.yml.
func DefaultCLIConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("solana: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "solana", "cli", "config.yml"), nil
}

// LoadCLIConfig reads the Solana CLI config at path.
func LoadCLIConfig(path string) (CLIConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CLIConfig{}, fmt.Errorf("%w: solana cli config %s", med.ErrConfigNotFound, path)
		}
		return CLIConfig{}, fmt.Errorf("solana: read cli config %s: %w", path, err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("%w: solana cli config %s: %v", med.ErrConfigMalformed, path, err)
	}

	cfg.JSONRPCURL = strings.TrimSpace(cfg.JSONRPCURL)
	cfg.KeypairPath = expandHome(strings.TrimSpace(cfg.KeypairPath))
	return cfg, nil
}

// LoadPayer loads the default signer referenced by keypair_path.
func (c CLIConfig) LoadPayer() (types.Account, error) {
	if c.KeypairPath == "" {
		return types.Account{}, fmt.Errorf("%w: solana cli config: missing keypair path", med.ErrConfigMalformed)
	}
	return LoadKeypairFile(c.KeypairPath)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
