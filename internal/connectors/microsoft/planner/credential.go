package planner

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// Ensure StaticCredential implements the interface.
var _ azcore.TokenCredential = (*StaticCredential)(nil)

// staticTokenLifetime is the expiry reported to the SDK. The real expiry is
// unknown; the SDK only uses it to decide when to ask again.
const staticTokenLifetime = time.Hour

// StaticCredential hands the caller's bearer token to the Graph SDK as is.
// It never refreshes or inspects the token.
type StaticCredential struct {
	token string
}

// NewStaticCredential creates a credential for one caller token.
func NewStaticCredential(token string) *StaticCredential {
	return &StaticCredential{token: token}
}

// GetToken returns the wrapped token regardless of the requested scopes.
func (c *StaticCredential) GetToken(_ context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{
		Token:     c.token,
		ExpiresOn: time.Now().Add(staticTokenLifetime),
	}, nil
}
