package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"
)

// ECSAPI is the subset of the ECS client used by the gateway.
type ECSAPI interface {
	ListClusters(ctx context.Context, params *ecs.ListClustersInput, optFns ...func(*ecs.Options)) (*ecs.ListClustersOutput, error)
	DescribeClusters(ctx context.Context, params *ecs.DescribeClustersInput, optFns ...func(*ecs.Options)) (*ecs.DescribeClustersOutput, error)
	ListServices(ctx context.Context, params *ecs.ListServicesInput, optFns ...func(*ecs.Options)) (*ecs.ListServicesOutput, error)
	DescribeServices(ctx context.Context, params *ecs.DescribeServicesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error)
	ListTasks(ctx context.Context, params *ecs.ListTasksInput, optFns ...func(*ecs.Options)) (*ecs.ListTasksOutput, error)
	DescribeTasks(ctx context.Context, params *ecs.DescribeTasksInput, optFns ...func(*ecs.Options)) (*ecs.DescribeTasksOutput, error)
}

// RDSAPI is the subset of the RDS client used by the gateway.
type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
}

// STSAPI is the subset of the STS client used by the gateway.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Client wraps AWS service clients
type Client struct {
	ECS    ECSAPI
	RDS    RDSAPI
	STS    STSAPI
	Region string

	log *zap.Logger
}

// Options selects the shared profile and region used to build a Client.
// Empty values fall back to the SDK default chain.
type Options struct {
	Profile string
	Region  string
	Logger  *zap.Logger
}

// NewClient creates a new AWS client from the default configuration chain
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := &Client{
		ECS:    ecs.NewFromConfig(cfg),
		RDS:    rds.NewFromConfig(cfg),
		STS:    sts.NewFromConfig(cfg),
		Region: cfg.Region,
	}
	return c.WithLogger(opts.Logger), nil
}

// WithLogger sets the logger used for request tracing. A nil logger disables it.
func (c *Client) WithLogger(l *zap.Logger) *Client {
	if l == nil {
		l = zap.NewNop()
	}
	c.log = l
	return c
}

func (c *Client) logger() *zap.Logger {
	if c.log == nil {
		return zap.NewNop()
	}
	return c.log
}

// GetRegion returns the configured AWS region
func (c *Client) GetRegion() string {
	return c.Region
}

// getString safely dereferences a string pointer
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func getInt32Value(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}

// chunk splits ids into batches no larger than size, preserving order.
func chunk(ids []string, size int) [][]string {
	var batches [][]string
	for len(ids) > size {
		batches = append(batches, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
