package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// CallerIdentity describes the principal the credentials resolve to.
type CallerIdentity struct {
	Account string
	Arn     string
}

// CallerIdentity returns the account and ARN of the current credentials.
func (c *Client) CallerIdentity(ctx context.Context) (*CallerIdentity, error) {
	if c.STS == nil {
		return nil, fmt.Errorf("STS client not initialized")
	}

	out, err := c.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get caller identity: %w", err)
	}

	return &CallerIdentity{
		Account: getString(out.Account),
		Arn:     getString(out.Arn),
	}, nil
}
