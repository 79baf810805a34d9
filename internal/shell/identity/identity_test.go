package identity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeIAM struct {
	providerARNs  []string
	createRoleErr error
	listErr       error

	createdProviders []*iam.CreateOpenIDConnectProviderInput
	createdRoles     []*iam.CreateRoleInput
	updatedPolicies  []*iam.UpdateAssumeRolePolicyInput
	attachedPolicies []string
}

func (f *fakeIAM) ListOpenIDConnectProviders(_ context.Context, _ *iam.ListOpenIDConnectProvidersInput, _ ...func(*iam.Options)) (*iam.ListOpenIDConnectProvidersOutput, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := &iam.ListOpenIDConnectProvidersOutput{}
	for _, arn := range f.providerARNs {
		out.OpenIDConnectProviderList = append(out.OpenIDConnectProviderList,
			iamtypes.OpenIDConnectProviderListEntry{Arn: aws.String(arn)})
	}
	return out, nil
}

func (f *fakeIAM) CreateOpenIDConnectProvider(_ context.Context, params *iam.CreateOpenIDConnectProviderInput, _ ...func(*iam.Options)) (*iam.CreateOpenIDConnectProviderOutput, error) {
	f.createdProviders = append(f.createdProviders, params)
	if len(f.providerARNs) > 0 {
		return nil, &iamtypes.EntityAlreadyExistsException{Message: aws.String("provider exists")}
	}
	return &iam.CreateOpenIDConnectProviderOutput{
		OpenIDConnectProviderArn: aws.String("arn:aws:iam::123456789012:oidc-provider/" + OIDCProviderHost),
	}, nil
}

func (f *fakeIAM) CreateRole(_ context.Context, params *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	f.createdRoles = append(f.createdRoles, params)
	if f.createRoleErr != nil {
		return nil, f.createRoleErr
	}
	return &iam.CreateRoleOutput{
		Role: &iamtypes.Role{Arn: aws.String("arn:aws:iam::123456789012:role/" + aws.ToString(params.RoleName))},
	}, nil
}

func (f *fakeIAM) GetRole(_ context.Context, params *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	return &iam.GetRoleOutput{
		Role: &iamtypes.Role{Arn: aws.String("arn:aws:iam::123456789012:role/" + aws.ToString(params.RoleName))},
	}, nil
}

func (f *fakeIAM) UpdateAssumeRolePolicy(_ context.Context, params *iam.UpdateAssumeRolePolicyInput, _ ...func(*iam.Options)) (*iam.UpdateAssumeRolePolicyOutput, error) {
	f.updatedPolicies = append(f.updatedPolicies, params)
	return &iam.UpdateAssumeRolePolicyOutput{}, nil
}

func (f *fakeIAM) AttachRolePolicy(_ context.Context, params *iam.AttachRolePolicyInput, _ ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	f.attachedPolicies = append(f.attachedPolicies, aws.ToString(params.PolicyArn))
	return &iam.AttachRolePolicyOutput{}, nil
}

type fakeSTS struct {
	account string
	err     error
}

func (f *fakeSTS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String(f.account)}, nil
}

func testService(iamClient IAMClient, stsClient STSClient) *Service {
	return New(iamClient, stsClient, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testRoleRequest() RoleRequest {
	return RoleRequest{
		RoleName:   "lightsail-deploy-role",
		Owner:      "acme",
		Repo:       "storefront",
		TrustScope: request.TrustScopeAnyBranch,
	}
}

// =============================================================================
// Trust Policy Tests
// =============================================================================

const testProviderARN = "arn:aws:iam::123456789012:oidc-provider/token.actions.githubusercontent.com"

func TestTrustPolicy_AnyBranch(t *testing.T) {
	doc, err := TrustPolicy(testProviderARN, "acme", "storefront", request.TrustScopeAnyBranch)
	require.NoError(t, err)

	var parsed policyDocument
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	require.Len(t, parsed.Statement, 1)
	stmt := parsed.Statement[0]
	assert.Equal(t, "2012-10-17", parsed.Version)
	assert.Equal(t, "Allow", stmt.Effect)
	assert.Equal(t, testProviderARN, stmt.Principal.Federated)
	assert.Equal(t, "sts:AssumeRoleWithWebIdentity", stmt.Action)
	assert.Equal(t, "sts.amazonaws.com", stmt.Condition.StringEquals["token.actions.githubusercontent.com:aud"])
	assert.Equal(t, "repo:acme/storefront:*", stmt.Condition.StringLike["token.actions.githubusercontent.com:sub"])
}

func TestTrustPolicy_MainBranchOnly(t *testing.T) {
	doc, err := TrustPolicy(testProviderARN, "acme", "storefront", request.TrustScopeMainBranch)
	require.NoError(t, err)

	var parsed policyDocument
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	stmt := parsed.Statement[0]
	assert.Equal(t, "repo:acme/storefront:ref:refs/heads/main", stmt.Condition.StringEquals["token.actions.githubusercontent.com:sub"])
	assert.Empty(t, stmt.Condition.StringLike)
}

func TestTrustPolicy_MissingParams(t *testing.T) {
	_, err := TrustPolicy("", "acme", "storefront", request.TrustScopeAnyBranch)
	assert.Error(t, err)

	_, err = TrustPolicy(testProviderARN, "", "storefront", request.TrustScopeAnyBranch)
	assert.Error(t, err)
}

// =============================================================================
// Account Tests
// =============================================================================

func TestAccountID(t *testing.T) {
	svc := testService(&fakeIAM{}, &fakeSTS{account: "123456789012"})

	account, err := svc.AccountID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123456789012", account)
}

func TestAccountID_Error(t *testing.T) {
	svc := testService(&fakeIAM{}, &fakeSTS{err: errors.New("expired token")})

	_, err := svc.AccountID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "caller identity")
}

// =============================================================================
// OIDC Provider Tests
// =============================================================================

func TestEnsureOIDCProvider_AlreadyPresent(t *testing.T) {
	iamFake := &fakeIAM{providerARNs: []string{
		"arn:aws:iam::123456789012:oidc-provider/accounts.google.com",
		testProviderARN,
	}}
	svc := testService(iamFake, &fakeSTS{})

	arn, err := svc.EnsureOIDCProvider(context.Background(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, testProviderARN, arn)
	assert.Empty(t, iamFake.createdProviders)
}

func TestEnsureOIDCProvider_Creates(t *testing.T) {
	iamFake := &fakeIAM{}
	svc := testService(iamFake, &fakeSTS{})

	arn, err := svc.EnsureOIDCProvider(context.Background(), "123456789012")
	require.NoError(t, err)
	assert.Equal(t, testProviderARN, arn)

	require.Len(t, iamFake.createdProviders, 1)
	created := iamFake.createdProviders[0]
	assert.Equal(t, OIDCProviderURL, aws.ToString(created.Url))
	assert.Equal(t, []string{OIDCAudience}, created.ClientIDList)
	assert.NotEmpty(t, created.ThumbprintList)
}

func TestEnsureOIDCProvider_ConcurrentCreation(t *testing.T) {
	// The list misses the provider but creation reports it already
	// exists; the ARN is derived from the account.
	iamFake := &fakeIAM{providerARNs: []string{"racing"}}
	iamFake.providerARNs = nil
	svc := testService(&conflictOnCreateIAM{fakeIAM: iamFake}, &fakeSTS{})

	arn, err := svc.EnsureOIDCProvider(context.Background(), "999999999999")
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iam::999999999999:oidc-provider/"+OIDCProviderHost, arn)
}

// conflictOnCreateIAM makes provider creation race like a concurrent setup.
type conflictOnCreateIAM struct {
	*fakeIAM
}

func (c *conflictOnCreateIAM) CreateOpenIDConnectProvider(_ context.Context, params *iam.CreateOpenIDConnectProviderInput, _ ...func(*iam.Options)) (*iam.CreateOpenIDConnectProviderOutput, error) {
	c.createdProviders = append(c.createdProviders, params)
	return nil, &iamtypes.EntityAlreadyExistsException{Message: aws.String("conflict")}
}

// =============================================================================
// Deploy Role Tests
// =============================================================================

func TestEnsureDeployRole_Creates(t *testing.T) {
	iamFake := &fakeIAM{}
	svc := testService(iamFake, &fakeSTS{})

	arn, created, err := svc.EnsureDeployRole(context.Background(), testProviderARN, testRoleRequest())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "arn:aws:iam::123456789012:role/lightsail-deploy-role", arn)

	require.Len(t, iamFake.createdRoles, 1)
	trustDoc := aws.ToString(iamFake.createdRoles[0].AssumeRolePolicyDocument)
	assert.Contains(t, trustDoc, "repo:acme/storefront:*")
	assert.Contains(t, trustDoc, testProviderARN)

	assert.Equal(t, []string{
		"arn:aws:iam::aws:policy/ReadOnlyAccess",
		"arn:aws:iam::aws:policy/AmazonLightsailFullAccess",
	}, iamFake.attachedPolicies)
	assert.Empty(t, iamFake.updatedPolicies)
}

func TestEnsureDeployRole_ExistingRoleRefreshed(t *testing.T) {
	iamFake := &fakeIAM{
		createRoleErr: &iamtypes.EntityAlreadyExistsException{Message: aws.String("role exists")},
	}
	svc := testService(iamFake, &fakeSTS{})

	req := testRoleRequest()
	req.TrustScope = request.TrustScopeMainBranch
	arn, created, err := svc.EnsureDeployRole(context.Background(), testProviderARN, req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "arn:aws:iam::123456789012:role/lightsail-deploy-role", arn)

	require.Len(t, iamFake.updatedPolicies, 1)
	refreshed := aws.ToString(iamFake.updatedPolicies[0].PolicyDocument)
	assert.Contains(t, refreshed, "repo:acme/storefront:ref:refs/heads/main")

	// Managed policies are re-attached on update runs too.
	assert.Len(t, iamFake.attachedPolicies, 2)
}

func TestEnsureDeployRole_CreateFailure(t *testing.T) {
	iamFake := &fakeIAM{createRoleErr: errors.New("access denied")}
	svc := testService(iamFake, &fakeSTS{})

	_, _, err := svc.EnsureDeployRole(context.Background(), testProviderARN, testRoleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create role")
	assert.Empty(t, iamFake.attachedPolicies)
}

// =============================================================================
// Setup Tests
// =============================================================================

func TestSetup(t *testing.T) {
	iamFake := &fakeIAM{}
	svc := testService(iamFake, &fakeSTS{account: "123456789012"})

	result, err := svc.Setup(context.Background(), testRoleRequest())
	require.NoError(t, err)

	assert.Equal(t, "123456789012", result.AccountID)
	assert.Equal(t, testProviderARN, result.ProviderARN)
	assert.Equal(t, "arn:aws:iam::123456789012:role/lightsail-deploy-role", result.RoleARN)
	assert.True(t, result.Created)
}

func TestSetup_ReRunUpdatesInPlace(t *testing.T) {
	iamFake := &fakeIAM{
		providerARNs:  []string{testProviderARN},
		createRoleErr: &iamtypes.EntityAlreadyExistsException{Message: aws.String("role exists")},
	}
	svc := testService(iamFake, &fakeSTS{account: "123456789012"})

	result, err := svc.Setup(context.Background(), testRoleRequest())
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Empty(t, iamFake.createdProviders)
	assert.Len(t, iamFake.updatedPolicies, 1)
}

func TestSetup_IdentityFailureAborts(t *testing.T) {
	iamFake := &fakeIAM{}
	svc := testService(iamFake, &fakeSTS{err: errors.New("no credentials")})

	_, err := svc.Setup(context.Background(), testRoleRequest())
	require.Error(t, err)
	assert.Empty(t, iamFake.createdRoles)
}
