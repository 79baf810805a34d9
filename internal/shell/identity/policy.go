package identity

import (
	"encoding/json"
	"fmt"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
)

// GitHub's OIDC issuer and the audience AWS expects on its tokens.
const (
	OIDCProviderURL  = "https://token.actions.githubusercontent.com"
	OIDCProviderHost = "token.actions.githubusercontent.com"
	OIDCAudience     = "sts.amazonaws.com"
)

// Root CA thumbprints for the GitHub OIDC issuer. AWS validates GitHub
// tokens through its own trust store these days but the create call
// still requires at least one thumbprint.
var oidcThumbprints = []string{
	"6938fd4d98bab03faadb97b34396831e3780aea1",
	"1c58a3a8518e8759bf075b76b750d4f2df264fcd",
}

// Managed policies attached to the deploy role: broad read access plus
// full control of Lightsail.
var managedPolicyARNs = []string{
	"arn:aws:iam::aws:policy/ReadOnlyAccess",
	"arn:aws:iam::aws:policy/AmazonLightsailFullAccess",
}

// =============================================================================
// Trust Policy Document
// =============================================================================

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string          `json:"Effect"`
	Principal policyPrincipal `json:"Principal"`
	Action    string          `json:"Action"`
	Condition policyCondition `json:"Condition"`
}

type policyPrincipal struct {
	Federated string `json:"Federated"`
}

type policyCondition struct {
	StringEquals map[string]string `json:"StringEquals,omitempty"`
	StringLike   map[string]string `json:"StringLike,omitempty"`
}

// TrustPolicy builds the federated trust policy that lets GitHub
// Actions workflows of one repository assume the deploy role. The
// subject claim is scoped per the trust scope: any branch uses a
// wildcard ref, main-branch-only pins the exact ref.
func TrustPolicy(providerARN, owner, repo string, scope request.TrustScope) (string, error) {
	if providerARN == "" || owner == "" || repo == "" {
		return "", fmt.Errorf("provider ARN, owner, and repo are all required")
	}

	condition := policyCondition{
		StringEquals: map[string]string{
			OIDCProviderHost + ":aud": OIDCAudience,
		},
	}
	switch scope {
	case request.TrustScopeMainBranch:
		condition.StringEquals[OIDCProviderHost+":sub"] = fmt.Sprintf("repo:%s/%s:ref:refs/heads/main", owner, repo)
	default:
		condition.StringLike = map[string]string{
			OIDCProviderHost + ":sub": fmt.Sprintf("repo:%s/%s:*", owner, repo),
		}
	}

	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: policyPrincipal{Federated: providerARN},
			Action:    "sts:AssumeRoleWithWebIdentity",
			Condition: condition,
		}},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal trust policy: %w", err)
	}
	return string(data), nil
}
