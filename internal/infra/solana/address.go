// internal/infra/solana/address.go
package solana

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
)

// DerivedAddresses は 1 回の mint で使う PDA 一式です。永続化せず毎回再計算する。
type DerivedAddresses struct {
	TokenWallet   common.PublicKey
	Metadata      common.PublicKey
	MasterEdition common.PublicKey
}

// Derive returns the program-derived address for seeds under owner.
// The bump seed is discarded.
func Derive(seeds [][]byte, owner common.PublicKey) (common.PublicKey, error) {
	addr, _, err := common.FindProgramAddress(seeds, owner)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("solana: find program address: %w", err)
	}
	return addr, nil
}

// TokenWallet derives the associated token account of holder for mint.
func TokenWallet(holder, mint common.PublicKey) (common.PublicKey, error) {
	return Derive(
		[][]byte{holder.Bytes(), TokenProgramID.Bytes(), mint.Bytes()},
		AssociatedTokenProgramID,
	)
}

// MetadataAddress derives the Metaplex metadata account of mint.
func MetadataAddress(mint common.PublicKey) (common.PublicKey, error) {
	return Derive(
		[][]byte{[]byte(metadataSeed), MetadataProgramID.Bytes(), mint.Bytes()},
		MetadataProgramID,
	)
}

// MasterEditionAddress derives the Metaplex master edition account of mint.
func MasterEditionAddress(mint common.PublicKey) (common.PublicKey, error) {
	return Derive(
		[][]byte{[]byte(metadataSeed), MetadataProgramID.Bytes(), mint.Bytes(), []byte(editionSeed)},
		MetadataProgramID,
	)
}

// DeriveAddresses computes every PDA the create-master-edition instruction needs.
func DeriveAddresses(holder, mint common.PublicKey) (DerivedAddresses, error) {
	wallet, err := TokenWallet(holder, mint)
	if err != nil {
		return DerivedAddresses{}, fmt.Errorf("token wallet: %w", err)
	}
	meta, err := MetadataAddress(mint)
	if err != nil {
		return DerivedAddresses{}, fmt.Errorf("metadata: %w", err)
	}
	edition, err := MasterEditionAddress(mint)
	if err != nil {
		return DerivedAddresses{}, fmt.Errorf("master edition: %w", err)
	}
	return DerivedAddresses{
		TokenWallet:   wallet,
		Metadata:      meta,
		MasterEdition: edition,
	}, nil
}
