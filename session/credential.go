package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/hupe1980/agenttriage/core"
)

// DefaultScope is the token audience of the agents API.
const DefaultScope = "https://ai.azure.com/.default"

// refreshSkew renews tokens this long before they expire.
const refreshSkew = 5 * time.Minute

// NewAmbientCredential builds the ambient credential chain used when no
// explicit credential is supplied. Environment and managed identity
// credentials are excluded; workload identity (when configured), the Azure
// CLI and the Azure Developer CLI are tried in that order.
func NewAmbientCredential() (azcore.TokenCredential, error) {
	var sources []azcore.TokenCredential

	if wi, err := azidentity.NewWorkloadIdentityCredential(nil); err == nil {
		sources = append(sources, wi)
	}

	cli, err := azidentity.NewAzureCLICredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure cli credential: %w", err)
	}
	sources = append(sources, cli)

	azd, err := azidentity.NewAzureDeveloperCLICredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure developer cli credential: %w", err)
	}
	sources = append(sources, azd)

	return azidentity.NewChainedTokenCredential(sources, nil)
}

// tokenSource caches one access token for a scope.
type tokenSource struct {
	cred  azcore.TokenCredential
	scope string

	mu  sync.Mutex
	tok azcore.AccessToken
}

func newTokenSource(cred azcore.TokenCredential, scope string) *tokenSource {
	return &tokenSource{cred: cred, scope: scope}
}

// Token returns a valid bearer token, acquiring a new one when the cached
// token is missing or about to expire.
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tok.Token != "" && time.Until(t.tok.ExpiresOn) > refreshSkew {
		return t.tok.Token, nil
	}
	tok, err := t.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{t.scope}})
	if err != nil {
		return "", &core.AuthenticationError{Err: err}
	}
	t.tok = tok
	return tok.Token, nil
}
