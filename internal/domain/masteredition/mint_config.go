// internal/domain/masteredition/mint_config.go
package masteredition

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// MintConfig は master_editions/<name>.json 1 件分のレコードです。
// 生成後は不変として扱い、ID を付与する場合も WithIdentity で新しい値を作る。
type MintConfig struct {
	Name string // 呼び出し時の引数（ファイル名）

	Mint        string // base58 public key（未生成なら空）
	MintPrivate []byte // 64 byte secret key（seed + public key）

	Payload Payload
}

// HasIdentity reports whether a mint keypair was already generated.
func (c MintConfig) HasIdentity() bool {
	return strings.TrimSpace(c.Mint) != ""
}

// WithIdentity returns a copy of c carrying the given mint identity.
func (c MintConfig) WithIdentity(mint string, private []byte) MintConfig {
	out := c
	out.Mint = mint
	out.MintPrivate = append([]byte(nil), private...)
	return out
}

// ValidateIdentity checks that Mint is the base58 form of the public half of
// MintPrivate.
func (c MintConfig) ValidateIdentity() error {
	if !c.HasIdentity() {
		return fmt.Errorf("%w: %s: mint is empty", ErrConfigMalformed, c.Name)
	}
	if len(c.MintPrivate) != ed25519.PrivateKeySize {
		return fmt.Errorf("%w: %s: mint_private must be %d bytes, got %d",
			ErrConfigMalformed, c.Name, ed25519.PrivateKeySize, len(c.MintPrivate))
	}

	mintBytes, err := base58.Decode(c.Mint)
	if err != nil {
		return fmt.Errorf("%w: %s: mint is not base58: %v", ErrConfigMalformed, c.Name, err)
	}

	pub := ed25519.PrivateKey(c.MintPrivate).Public().(ed25519.PublicKey)
	if !bytes.Equal(mintBytes, pub) {
		return fmt.Errorf("%w: %s: mint %s does not match mint_private", ErrConfigMalformed, c.Name, c.Mint)
	}
	return nil
}
