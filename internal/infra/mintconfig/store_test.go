package mintconfig

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	med "github.com/matthewrx/create-master-edition/internal/domain/masteredition"
)

const freshConfig = `{
    "seller_fee_bp": 500,
    "name": "Genesis",
    "symbol": "GEN",
    "uri": "https://arweave.net/genesis.json",
    "supply": 10,
    "creator_note": "kept as is"
}`

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name+".json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), zerolog.Nop())
}

func TestLoadGeneratesAndPersistsIdentity(t *testing.T) {
	s := newTestStore(t)
	path := writeConfig(t, s.Dir, "genesis", freshConfig)

	cfg, err := s.Load("genesis")
	require.NoError(t, err)
	require.True(t, cfg.HasIdentity())

	assert.Equal(t, med.Payload{
		SellerFeeBasisPoints: 500,
		Name:                 "Genesis",
		Symbol:               "GEN",
		URI:                  "https://arweave.net/genesis.json",
		Supply:               10,
	}, cfg.Payload)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := gjson.ParseBytes(raw)

	mint := doc.Get("mint").String()
	secret := doc.Get("mint_private").Array()
	require.Len(t, secret, ed25519.PrivateKeySize)

	priv := make([]byte, len(secret))
	for i, v := range secret {
		priv[i] = byte(v.Int())
	}
	pub := ed25519.PrivateKey(priv).Public().(ed25519.PublicKey)
	assert.Equal(t, base58.Encode(pub), mint)
	assert.Equal(t, cfg.Mint, mint)

	// 既存フィールドは保持される
	assert.Equal(t, "kept as is", doc.Get("creator_note").String())
	assert.True(t, strings.Contains(string(raw), "\n    \"mint\""))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
}

func TestLoadReusesExistingIdentity(t *testing.T) {
	s := newTestStore(t)
	path := writeConfig(t, s.Dir, "genesis", freshConfig)

	first, err := s.Load("genesis")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	s.NewAccount = func() types.Account {
		t.Fatal("identity must not be regenerated")
		return types.Account{}
	}

	second, err := s.Load("genesis")
	require.NoError(t, err)
	after, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first.Mint, second.Mint)
	assert.Equal(t, first.MintPrivate, second.MintPrivate)
	assert.Equal(t, before, after)
}

func TestLoadErrors(t *testing.T) {
	s := newTestStore(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := s.Load("nope")
		assert.ErrorIs(t, err, med.ErrConfigNotFound)
	})

	t.Run("path traversal", func(t *testing.T) {
		_, err := s.Load("../etc/passwd")
		assert.ErrorIs(t, err, med.ErrConfigNotFound)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := s.Load("  ")
		assert.ErrorIs(t, err, med.ErrConfigNotFound)
	})

	t.Run("invalid json", func(t *testing.T) {
		writeConfig(t, s.Dir, "broken", `{"name": "x",`)
		_, err := s.Load("broken")
		assert.ErrorIs(t, err, med.ErrConfigMalformed)
	})

	t.Run("not an object", func(t *testing.T) {
		writeConfig(t, s.Dir, "array", `[1,2,3]`)
		_, err := s.Load("array")
		assert.ErrorIs(t, err, med.ErrConfigMalformed)
	})

	t.Run("missing field", func(t *testing.T) {
		writeConfig(t, s.Dir, "nosymbol", `{"seller_fee_bp":1,"name":"a","uri":"u","supply":1}`)
		_, err := s.Load("nosymbol")
		require.ErrorIs(t, err, med.ErrConfigMalformed)
		assert.Contains(t, err.Error(), "symbol")
	})

	t.Run("wrong type", func(t *testing.T) {
		writeConfig(t, s.Dir, "strfee", `{"seller_fee_bp":"500","name":"a","symbol":"b","uri":"u","supply":1}`)
		_, err := s.Load("strfee")
		assert.ErrorIs(t, err, med.ErrConfigMalformed)
	})

	t.Run("mint without secret", func(t *testing.T) {
		writeConfig(t, s.Dir, "halfid", `{"seller_fee_bp":1,"name":"a","symbol":"b","uri":"u","supply":1,"mint":"11111111111111111111111111111111"}`)
		_, err := s.Load("halfid")
		assert.ErrorIs(t, err, med.ErrConfigMalformed)
	})

	t.Run("malformed file is left untouched", func(t *testing.T) {
		path := writeConfig(t, s.Dir, "nosupply", `{"seller_fee_bp":1,"name":"a","symbol":"b","uri":"u"}`)
		_, err := s.Load("nosupply")
		require.ErrorIs(t, err, med.ErrConfigMalformed)
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.False(t, gjson.GetBytes(raw, "mint").Exists())
	})
}
