// Package identity provisions the cloud side of GitHub Actions OIDC
// deployment: the identity provider, the deploy role with its federated
// trust policy, and the managed policy attachments.
// This is part of the Imperative Shell - handles I/O with cloud APIs.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	smithy "github.com/aws/smithy-go"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/config"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
)

// =============================================================================
// Client Interfaces
// =============================================================================

// IAMClient is the subset of the IAM API the service uses.
type IAMClient interface {
	ListOpenIDConnectProviders(ctx context.Context, params *iam.ListOpenIDConnectProvidersInput, optFns ...func(*iam.Options)) (*iam.ListOpenIDConnectProvidersOutput, error)
	CreateOpenIDConnectProvider(ctx context.Context, params *iam.CreateOpenIDConnectProviderInput, optFns ...func(*iam.Options)) (*iam.CreateOpenIDConnectProviderOutput, error)
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	UpdateAssumeRolePolicy(ctx context.Context, params *iam.UpdateAssumeRolePolicyInput, optFns ...func(*iam.Options)) (*iam.UpdateAssumeRolePolicyOutput, error)
	AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error)
}

// STSClient is the subset of the STS API the service uses.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// =============================================================================
// Service
// =============================================================================

// RoleRequest describes the deploy role to create or update.
type RoleRequest struct {
	RoleName   string
	Owner      string
	Repo       string
	TrustScope request.TrustScope
}

// SetupResult reports what the setup ensured.
type SetupResult struct {
	AccountID   string
	ProviderARN string
	RoleARN     string

	// Created is true when the role was created by this run rather
	// than updated in place.
	Created bool
}

// Service ensures the OIDC provider and deploy role exist.
type Service struct {
	iam    IAMClient
	sts    STSClient
	logger *slog.Logger
}

// New creates a Service from explicit clients.
func New(iamClient IAMClient, stsClient STSClient, logger *slog.Logger) *Service {
	return &Service{
		iam:    iamClient,
		sts:    stsClient,
		logger: logger.With("collaborator", "identity"),
	}
}

// NewFromConfig creates a Service using the default AWS credential
// chain, with profile and static-credential overrides from the tool
// configuration.
func NewFromConfig(ctx context.Context, awsCfg config.AWSConfig, logger *slog.Logger) (*Service, error) {
	optFns := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(awsCfg.Region),
	}
	if awsCfg.Profile != "" {
		optFns = append(optFns, awsconfig.WithSharedConfigProfile(awsCfg.Profile))
	}
	if awsCfg.AccessKeyID != "" && awsCfg.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsCfg.AccessKeyID, awsCfg.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return New(iam.NewFromConfig(cfg), sts.NewFromConfig(cfg), logger), nil
}

// =============================================================================
// Operations
// =============================================================================

// AccountID returns the AWS account of the configured credentials.
func (s *Service) AccountID(ctx context.Context) (string, error) {
	out, err := s.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return aws.ToString(out.Account), nil
}

// EnsureOIDCProvider returns the ARN of the GitHub OIDC provider,
// creating it when the account does not have one yet.
func (s *Service) EnsureOIDCProvider(ctx context.Context, accountID string) (string, error) {
	list, err := s.iam.ListOpenIDConnectProviders(ctx, &iam.ListOpenIDConnectProvidersInput{})
	if err != nil {
		return "", fmt.Errorf("failed to list OIDC providers: %w", err)
	}

	// The provider host is the final ARN segment, so the listing is
	// enough to recognize an existing GitHub provider.
	for _, entry := range list.OpenIDConnectProviderList {
		arn := aws.ToString(entry.Arn)
		if strings.HasSuffix(arn, "/"+OIDCProviderHost) {
			s.logger.Debug("GitHub OIDC provider already present", "arn", arn)
			return arn, nil
		}
	}

	out, err := s.iam.CreateOpenIDConnectProvider(ctx, &iam.CreateOpenIDConnectProviderInput{
		Url:            aws.String(OIDCProviderURL),
		ClientIDList:   []string{OIDCAudience},
		ThumbprintList: oidcThumbprints,
	})
	if err != nil {
		// A concurrent setup may have created it between list and create.
		if isAlreadyExists(err) {
			arn := fmt.Sprintf("arn:aws:iam::%s:oidc-provider/%s", accountID, OIDCProviderHost)
			s.logger.Debug("GitHub OIDC provider created concurrently", "arn", arn)
			return arn, nil
		}
		return "", fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	arn := aws.ToString(out.OpenIDConnectProviderArn)
	s.logger.Info("created GitHub OIDC provider", "arn", arn)
	return arn, nil
}

// EnsureDeployRole creates the deploy role with its federated trust
// policy, or refreshes the trust policy of an existing role, then
// attaches the managed policies. Returns the role ARN and whether the
// role was created by this call.
func (s *Service) EnsureDeployRole(ctx context.Context, providerARN string, req RoleRequest) (string, bool, error) {
	policyDoc, err := TrustPolicy(providerARN, req.Owner, req.Repo, req.TrustScope)
	if err != nil {
		return "", false, err
	}

	var roleARN string
	created := true
	out, err := s.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(req.RoleName),
		AssumeRolePolicyDocument: aws.String(policyDoc),
		Description:              aws.String(fmt.Sprintf("GitHub Actions Lightsail deploy role for %s/%s", req.Owner, req.Repo)),
	})
	switch {
	case err == nil:
		roleARN = aws.ToString(out.Role.Arn)
		s.logger.Info("created deploy role", "role", req.RoleName, "arn", roleARN)

	case isAlreadyExists(err):
		created = false
		if _, err := s.iam.UpdateAssumeRolePolicy(ctx, &iam.UpdateAssumeRolePolicyInput{
			RoleName:       aws.String(req.RoleName),
			PolicyDocument: aws.String(policyDoc),
		}); err != nil {
			return "", false, fmt.Errorf("failed to update trust policy of role %s: %w", req.RoleName, err)
		}
		got, err := s.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(req.RoleName)})
		if err != nil {
			return "", false, fmt.Errorf("failed to look up role %s: %w", req.RoleName, err)
		}
		roleARN = aws.ToString(got.Role.Arn)
		s.logger.Info("refreshed trust policy of existing deploy role", "role", req.RoleName, "arn", roleARN)

	default:
		return "", false, fmt.Errorf("failed to create role %s: %w", req.RoleName, err)
	}

	// Attaching an already-attached managed policy succeeds, so no
	// existence check is needed.
	for _, policyARN := range managedPolicyARNs {
		if _, err := s.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
			RoleName:  aws.String(req.RoleName),
			PolicyArn: aws.String(policyARN),
		}); err != nil {
			return "", false, fmt.Errorf("failed to attach policy %s: %w", policyARN, err)
		}
	}

	return roleARN, created, nil
}

// Setup runs the full sequence: resolve the account, ensure the OIDC
// provider, ensure the deploy role. Safe to re-run; an existing role
// gets its trust policy refreshed.
func (s *Service) Setup(ctx context.Context, req RoleRequest) (*SetupResult, error) {
	accountID, err := s.AccountID(ctx)
	if err != nil {
		return nil, err
	}

	providerARN, err := s.EnsureOIDCProvider(ctx, accountID)
	if err != nil {
		return nil, err
	}

	roleARN, created, err := s.EnsureDeployRole(ctx, providerARN, req)
	if err != nil {
		return nil, err
	}

	return &SetupResult{
		AccountID:   accountID,
		ProviderARN: providerARN,
		RoleARN:     roleARN,
		Created:     created,
	}, nil
}

// isAlreadyExists recognizes the IAM duplicate-entity error.
func isAlreadyExists(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "EntityAlreadyExists"
}
