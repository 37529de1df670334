// internal/domain/masteredition/payload.go
package masteredition

import (
	"fmt"

	"github.com/near/borsh-go"
)

// CreateMasterEditionDiscriminator はオンチェーンプログラム側で
// "create master edition" を識別する先頭 1 バイトです。
const CreateMasterEditionDiscriminator byte = 69

// Payload は create master edition 命令の引数です。
// フィールド順はそのままワイヤーフォーマットになるため並べ替え禁止。
//
//	seller_fee_bp u16 (LE)
//	name          string (u32 LE length + bytes)
//	symbol        string (u32 LE length + bytes)
//	uri           string (u32 LE length + bytes)
//	supply        u16 (LE)
type Payload struct {
	SellerFeeBasisPoints uint16
	Name                 string
	Symbol               string
	URI                  string
	Supply               uint16
}

// Encode serializes p with borsh. Values are not range checked; the receiving
// program is the one that rejects them.
func Encode(p Payload) ([]byte, error) {
	b, err := borsh.Serialize(p)
	if err != nil {
		return nil, fmt.Errorf("masteredition: encode payload: %w", err)
	}
	return b, nil
}

// EncodedLen は Encode の出力長です（文字列長 + 固定長フィールド）。
func EncodedLen(p Payload) int {
	return 2 + 4 + len(p.Name) + 4 + len(p.Symbol) + 4 + len(p.URI) + 2
}

// InstructionData returns the discriminator followed by the encoded payload.
func InstructionData(p Payload) ([]byte, error) {
	body, err := Encode(p)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, 1+len(body))
	data = append(data, CreateMasterEditionDiscriminator)
	data = append(data, body...)
	return data, nil
}
