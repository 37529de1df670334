// internal/infra/solana/program_ids.go
package solana

import "github.com/blocto/solana-go-sdk/common"

// well-known program / sysvar ids
var (
	SystemProgramID          = common.PublicKeyFromString("11111111111111111111111111111111")
	TokenProgramID           = common.PublicKeyFromString("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedTokenProgramID = common.PublicKeyFromString("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	MetadataProgramID        = common.PublicKeyFromString("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

	RentSysvarID         = common.PublicKeyFromString("SysvarRent111111111111111111111111111111111")
	InstructionsSysvarID = common.PublicKeyFromString("Sysvar1nstructions1111111111111111111111111")
)

// Metaplex PDA seeds
const (
	metadataSeed = "metadata"
	editionSeed  = "edition"
)

// LamportsPerSOL is used only for balance logging.
const LamportsPerSOL = 1_000_000_000
