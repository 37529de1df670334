// internal/infra/solana/keypair.go
package solana

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blocto/solana-go-sdk/types"
)

// LoadKeypairFile は solana-keygen 形式（[u8;64] の JSON 配列）の鍵ファイルを
// types.Account に復元します。
func LoadKeypairFile(path string) (types.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, fmt.Errorf("solana: read keypair %s: %w", path, err)
	}
	return AccountFromKeypairJSON(data)
}

// AccountFromKeypairJSON decodes a solana-keygen keypair JSON document.
func AccountFromKeypairJSON(data []byte) (types.Account, error) {
	keyBytes, err := decodeKeypairJSON(data)
	if err != nil {
		return types.Account{}, err
	}
	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("solana: AccountFromBytes: %w", err)
	}
	return acc, nil
}

// decodeKeypairJSON は keypair JSON から 64 バイトの鍵配列を復元します。
// 値は 0..255 の整数配列であること。
func decodeKeypairJSON(data []byte) ([]byte, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("solana: unmarshal keypair json: %w", err)
	}

	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("solana: unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	keyBytes := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("solana: keypair byte out of range at %d: %d", i, v)
		}
		keyBytes[i] = byte(v)
	}
	return keyBytes, nil
}
