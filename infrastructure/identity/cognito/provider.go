package cognito

import (
	"context"
	"sort"

	"fortunasbet-api/application/ports"
	pkgerrors "fortunasbet-api/pkg/errors"
	"fortunasbet-api/pkg/resilience"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"
)

// CognitoAPI is the subset of the Cognito client the provider uses
type CognitoAPI interface {
	AdminUpdateUserAttributes(ctx context.Context, params *cognitoidentityprovider.AdminUpdateUserAttributesInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminUpdateUserAttributesOutput, error)
}

// Provider pushes profile changes back to the Cognito user pool
type Provider struct {
	client     CognitoAPI
	userPoolID string
	breaker    *resilience.Breaker
	logger     *zap.Logger
}

// NewProvider creates a Cognito identity provider
func NewProvider(client CognitoAPI, userPoolID string, breaker *resilience.Breaker, logger *zap.Logger) *Provider {
	return &Provider{
		client:     client,
		userPoolID: userPoolID,
		breaker:    breaker,
		logger:     logger,
	}
}

var _ ports.IdentityProvider = (*Provider)(nil)

// UpdateUserAttributes sets the given attributes on a pool user
func (p *Provider) UpdateUserAttributes(ctx context.Context, username string, attributes map[string]string) error {
	if len(attributes) == 0 {
		return nil
	}

	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	userAttributes := make([]types.AttributeType, 0, len(names))
	for _, name := range names {
		userAttributes = append(userAttributes, types.AttributeType{
			Name:  aws.String(name),
			Value: aws.String(attributes[name]),
		})
	}

	err := p.breaker.Execute(func() error {
		_, err := p.client.AdminUpdateUserAttributes(ctx, &cognitoidentityprovider.AdminUpdateUserAttributesInput{
			UserPoolId:     aws.String(p.userPoolID),
			Username:       aws.String(username),
			UserAttributes: userAttributes,
		})
		return err
	})
	if err != nil {
		if pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable) {
			return err
		}
		return pkgerrors.NewExternalError("cognito", err)
	}

	p.logger.Debug("Cognito attributes updated",
		zap.String("username", username),
		zap.Strings("attributes", names))
	return nil
}

// NoopProvider is used when Cognito sync is disabled
type NoopProvider struct{}

func (NoopProvider) UpdateUserAttributes(context.Context, string, map[string]string) error {
	return nil
}
