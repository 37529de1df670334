// internal/infra/mintconfig/store.go
package mintconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	med "github.com/matthewrx/create-master-edition/internal/domain/masteredition"
)

// DefaultDir は master edition 設定ファイルの既定ディレクトリです。
const DefaultDir = "./master_editions"

// JSON field names
const (
	fieldMint        = "mint"
	fieldMintPrivate = "mint_private"
	fieldSellerFeeBP = "seller_fee_bp"
	fieldName        = "name"
	fieldSymbol      = "symbol"
	fieldURI         = "uri"
	fieldSupply      = "supply"
)

// Store は <Dir>/<name>.json を読み書きする設定ローダーです。
type Store struct {
	Dir string

	// NewAccount は mint 鍵ペアの生成関数（テスト差し替え用）。
	NewAccount func() types.Account

	logger zerolog.Logger
}

// NewStore creates a Store rooted at dir. An empty dir falls back to DefaultDir.
func NewStore(dir string, logger zerolog.Logger) *Store {
	d := strings.TrimSpace(dir)
	if d == "" {
		d = DefaultDir
	}
	return &Store{
		Dir:        d,
		NewAccount: types.NewAccount,
		logger:     logger.With().Str("component", "mint_config_store").Logger(),
	}
}

// Path returns the config file path for name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

// Load reads the config named name. When the record has no mint identity a
// keypair is generated and the file is rewritten once, keeping every other
// field as it was.
func (s *Store) Load(name string) (med.MintConfig, error) {
	n := strings.TrimSpace(name)
	if n == "" || n == "." || n == ".." || strings.ContainsAny(n, `/\`) {
		return med.MintConfig{}, fmt.Errorf("%w: invalid config name %q", med.ErrConfigNotFound, name)
	}

	path := s.Path(n)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return med.MintConfig{}, fmt.Errorf("%w: %s", med.ErrConfigNotFound, path)
		}
		return med.MintConfig{}, fmt.Errorf("mintconfig: read %s: %w", path, err)
	}

	cfg, err := parse(n, raw)
	if err != nil {
		return med.MintConfig{}, err
	}

	if cfg.HasIdentity() {
		if err := cfg.ValidateIdentity(); err != nil {
			return med.MintConfig{}, err
		}
		return cfg, nil
	}

	acc := s.NewAccount()
	next := cfg.WithIdentity(acc.PublicKey.ToBase58(), acc.PrivateKey)

	if err := s.persistIdentity(path, raw, next); err != nil {
		return med.MintConfig{}, err
	}

	s.logger.Info().
		Str("config", n).
		Str("mint", next.Mint).
		Str("path", path).
		Msg("generated mint identity")

	return next, nil
}

func (s *Store) persistIdentity(path string, raw []byte, cfg med.MintConfig) error {
	out, err := sjson.SetBytes(raw, fieldMint, cfg.Mint)
	if err != nil {
		return fmt.Errorf("mintconfig: set %s: %w", fieldMint, err)
	}

	// solana-keygen と同じ [u8;64] の数値配列で保存する
	secret := make([]int, len(cfg.MintPrivate))
	for i, b := range cfg.MintPrivate {
		secret[i] = int(b)
	}
	out, err = sjson.SetBytes(out, fieldMintPrivate, secret)
	if err != nil {
		return fmt.Errorf("mintconfig: set %s: %w", fieldMintPrivate, err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", "    "); err != nil {
		return fmt.Errorf("mintconfig: indent %s: %w", path, err)
	}

	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}
	if err := os.WriteFile(path, buf.Bytes(), mode); err != nil {
		return fmt.Errorf("mintconfig: write %s: %w", path, err)
	}
	return nil
}

func parse(name string, raw []byte) (med.MintConfig, error) {
	if !gjson.ValidBytes(raw) {
		return med.MintConfig{}, fmt.Errorf("%w: %s: invalid json", med.ErrConfigMalformed, name)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return med.MintConfig{}, fmt.Errorf("%w: %s: top level must be an object", med.ErrConfigMalformed, name)
	}

	fee, err := requireNumber(name, root, fieldSellerFeeBP)
	if err != nil {
		return med.MintConfig{}, err
	}
	supply, err := requireNumber(name, root, fieldSupply)
	if err != nil {
		return med.MintConfig{}, err
	}
	tokenName, err := requireString(name, root, fieldName)
	if err != nil {
		return med.MintConfig{}, err
	}
	symbol, err := requireString(name, root, fieldSymbol)
	if err != nil {
		return med.MintConfig{}, err
	}
	uri, err := requireString(name, root, fieldURI)
	if err != nil {
		return med.MintConfig{}, err
	}

	cfg := med.MintConfig{
		Name: name,
		Payload: med.Payload{
			// u16 に収まらない値もそのまま切り詰めて渡す（検証はプログラム側）
			SellerFeeBasisPoints: uint16(fee.Int()),
			Name:                 tokenName,
			Symbol:               symbol,
			URI:                  uri,
			Supply:               uint16(supply.Int()),
		},
	}

	mint := root.Get(fieldMint)
	if !mint.Exists() || mint.Type == gjson.Null || (mint.Type == gjson.String && mint.Str == "") {
		return cfg, nil
	}
	if mint.Type != gjson.String {
		return med.MintConfig{}, fmt.Errorf("%w: %s: %s must be a string", med.ErrConfigMalformed, name, fieldMint)
	}

	secret, err := parseSecret(name, root.Get(fieldMintPrivate))
	if err != nil {
		return med.MintConfig{}, err
	}
	return cfg.WithIdentity(mint.Str, secret), nil
}

func requireNumber(name string, root gjson.Result, field string) (gjson.Result, error) {
	v := root.Get(field)
	if !v.Exists() {
		return v, fmt.Errorf("%w: %s: missing %s", med.ErrConfigMalformed, name, field)
	}
	if v.Type != gjson.Number {
		return v, fmt.Errorf("%w: %s: %s must be a number", med.ErrConfigMalformed, name, field)
	}
	return v, nil
}

func requireString(name string, root gjson.Result, field string) (string, error) {
	v := root.Get(field)
	if !v.Exists() {
		return "", fmt.Errorf("%w: %s: missing %s", med.ErrConfigMalformed, name, field)
	}
	if v.Type != gjson.String {
		return "", fmt.Errorf("%w: %s: %s must be a string", med.ErrConfigMalformed, name, field)
	}
	return v.Str, nil
}

func parseSecret(name string, v gjson.Result) ([]byte, error) {
	if !v.Exists() || !v.IsArray() {
		return nil, fmt.Errorf("%w: %s: %s must be a byte array", med.ErrConfigMalformed, name, fieldMintPrivate)
	}
	items := v.Array()
	out := make([]byte, len(items))
	for i, it := range items {
		if it.Type != gjson.Number || it.Num < 0 || it.Num > 255 {
			return nil, fmt.Errorf("%w: %s: %s[%d] out of byte range", med.ErrConfigMalformed, name, fieldMintPrivate, i)
		}
		out[i] = byte(it.Int())
	}
	return out, nil
}
