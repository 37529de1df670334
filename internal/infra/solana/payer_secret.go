// internal/infra/solana/payer_secret.go
package solana

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
)

// LoadPayerFromSecret は Secret Manager に保存した solana-keygen の keypair
// (JSON 配列 [u8;64]) から fee payer を復元します。
//
// secretName には
//
//	"projects/<PROJECT_ID>/secrets/<SECRET_ID>/versions/latest"
//
// のような Secret Version のフルパスを指定する。
func LoadPayerFromSecret(ctx context.Context, secretName string) (types.Account, error) {
	name := strings.TrimSpace(secretName)
	if name == "" {
		return types.Account{}, fmt.Errorf("solana: payer secret name is empty")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return types.Account{}, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return types.Account{}, fmt.Errorf("AccessSecretVersion %s: %w", name, err)
	}

	return AccountFromKeypairJSON(resp.GetPayload().GetData())
}
