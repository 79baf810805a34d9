// Package lightsail refreshes the static catalog from the Lightsail API
// and preflights blueprint/bundle availability before generation.
// This is part of the Imperative Shell - handles I/O with cloud APIs.
package lightsail

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lightsail"
	"github.com/aws/aws-sdk-go-v2/service/lightsail/types"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/config"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/catalog"
)

// =============================================================================
// Client Interface
// =============================================================================

// APIClient is the subset of the Lightsail API the service uses.
type APIClient interface {
	GetRegions(ctx context.Context, params *lightsail.GetRegionsInput, optFns ...func(*lightsail.Options)) (*lightsail.GetRegionsOutput, error)
	GetBlueprints(ctx context.Context, params *lightsail.GetBlueprintsInput, optFns ...func(*lightsail.Options)) (*lightsail.GetBlueprintsOutput, error)
	GetBundles(ctx context.Context, params *lightsail.GetBundlesInput, optFns ...func(*lightsail.Options)) (*lightsail.GetBundlesOutput, error)
}

// =============================================================================
// Service
// =============================================================================

// Catalog is one consistent listing of regions, blueprints, and bundles,
// either fetched live or taken from the static tables.
type Catalog struct {
	Regions    []catalog.Region
	Blueprints []catalog.Blueprint
	Bundles    []catalog.Bundle

	// Live is false when the listing came from the static catalog,
	// either by choice or as a fallback after an API error.
	Live bool
}

// Service fetches catalog data from the Lightsail API.
type Service struct {
	client APIClient
	logger *slog.Logger
}

// New creates a Service from an explicit client.
func New(client APIClient, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With("collaborator", "lightsail"),
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

	return New(lightsail.NewFromConfig(cfg), logger), nil
}

// StaticCatalog returns the built-in catalog tables.
func StaticCatalog() Catalog {
	return Catalog{
		Regions:    catalog.Regions(),
		Blueprints: catalog.Blueprints(),
		Bundles:    catalog.Bundles(),
	}
}

// =============================================================================
// Catalog Refresh
// =============================================================================

// FetchCatalog fetches the live catalog. Any API error falls back to
// the static catalog so listing keeps working offline.
func (s *Service) FetchCatalog(ctx context.Context) Catalog {
	regions, err := s.fetchRegions(ctx)
	if err != nil {
		s.logger.Warn("falling back to static catalog", "error", err)
		return StaticCatalog()
	}
	blueprints, err := s.fetchBlueprints(ctx)
	if err != nil {
		s.logger.Warn("falling back to static catalog", "error", err)
		return StaticCatalog()
	}
	bundles, err := s.fetchBundles(ctx)
	if err != nil {
		s.logger.Warn("falling back to static catalog", "error", err)
		return StaticCatalog()
	}

	return Catalog{
		Regions:    regions,
		Blueprints: blueprints,
		Bundles:    bundles,
		Live:       true,
	}
}

func (s *Service) fetchRegions(ctx context.Context) ([]catalog.Region, error) {
	out, err := s.client.GetRegions(ctx, &lightsail.GetRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}

	regions := make([]catalog.Region, 0, len(out.Regions))
	for _, r := range out.Regions {
		regions = append(regions, catalog.Region{
			ID:        string(r.Name),
			Name:      aws.ToString(r.DisplayName),
			Available: true,
		})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].ID < regions[j].ID })
	return regions, nil
}

func (s *Service) fetchBlueprints(ctx context.Context) ([]catalog.Blueprint, error) {
	var blueprints []catalog.Blueprint
	var pageToken *string
	for {
		out, err := s.client.GetBlueprints(ctx, &lightsail.GetBlueprintsInput{
			PageToken: pageToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list blueprints: %w", err)
		}
		for _, b := range out.Blueprints {
			// Only OS blueprints are usable targets; app blueprints
			// bundle their own stack and conflict with the resolver.
			if b.Type != types.BlueprintTypeOs || !aws.ToBool(b.IsActive) {
				continue
			}
			blueprints = append(blueprints, catalog.Blueprint{
				ID:   aws.ToString(b.BlueprintId),
				Name: aws.ToString(b.Name),
			})
		}
		if out.NextPageToken == nil {
			break
		}
		pageToken = out.NextPageToken
	}
	sort.Slice(blueprints, func(i, j int) bool { return blueprints[i].ID < blueprints[j].ID })
	return blueprints, nil
}

func (s *Service) fetchBundles(ctx context.Context) ([]catalog.Bundle, error) {
	var bundles []catalog.Bundle
	var pageToken *string
	for {
		out, err := s.client.GetBundles(ctx, &lightsail.GetBundlesInput{
			PageToken: pageToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list bundles: %w", err)
		}
		for _, b := range out.Bundles {
			if !aws.ToBool(b.IsActive) {
				continue
			}
			bundles = append(bundles, catalog.Bundle{
				ID:           aws.ToString(b.BundleId),
				Name:         aws.ToString(b.Name),
				CPUCores:     float64(aws.ToInt32(b.CpuCount)),
				MemoryMB:     int64(aws.ToFloat32(b.RamSizeInGb) * 1024),
				DiskGB:       int(aws.ToInt32(b.DiskSizeInGb)),
				PriceMonthly: float64(aws.ToFloat32(b.Price)),
			})
		}
		if out.NextPageToken == nil {
			break
		}
		pageToken = out.NextPageToken
	}
	sort.Slice(bundles, func(i, j int) bool { return bundles[i].MemoryMB < bundles[j].MemoryMB })
	return bundles, nil
}

// =============================================================================
// Availability Preflight
// =============================================================================

// CheckAvailability verifies the chosen blueprint and bundle are active
// in the configured region before anything is generated. An API error
// is returned as-is; the caller decides whether to treat it as fatal.
func (s *Service) CheckAvailability(ctx context.Context, blueprintID, bundleID string) error {
	blueprints, err := s.fetchBlueprints(ctx)
	if err != nil {
		return err
	}
	if !containsBlueprint(blueprints, blueprintID) {
		return fmt.Errorf("blueprint %q is not available: known blueprints are %s",
			blueprintID, joinIDs(blueprintIDs(blueprints)))
	}

	bundles, err := s.fetchBundles(ctx)
	if err != nil {
		return err
	}
	if !containsBundle(bundles, bundleID) {
		return fmt.Errorf("bundle %q is not available: known bundles are %s",
			bundleID, joinIDs(bundleIDs(bundles)))
	}
	return nil
}

func containsBlueprint(bs []catalog.Blueprint, id string) bool {
	for _, b := range bs {
		if b.ID == id {
			return true
		}
	}
	return false
}

func containsBundle(bs []catalog.Bundle, id string) bool {
	for _, b := range bs {
		if b.ID == id {
			return true
		}
	}
	return false
}

func blueprintIDs(bs []catalog.Blueprint) []string {
	ids := make([]string, len(bs))
	for i, b := range bs {
		ids[i] = b.ID
	}
	return ids
}

func bundleIDs(bs []catalog.Bundle) []string {
	ids := make([]string, len(bs))
	for i, b := range bs {
		ids[i] = b.ID
	}
	return ids
}

func joinIDs(ids []string) string {
	return strings.Join(ids, ", ")
}
