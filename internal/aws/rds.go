package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/rds"
	"go.uber.org/zap"
)

// DBInstance is an RDS instance reachable through a port forward.
type DBInstance struct {
	ID   string
	Host string
	Port int32
}

// ListDatabaseInstances returns every RDS instance that exposes an endpoint.
// Instances still being created have none and are skipped.
func (c *Client) ListDatabaseInstances(ctx context.Context) ([]DBInstance, error) {
	if c.RDS == nil {
		return nil, fmt.Errorf("RDS client not initialized")
	}

	var instances []DBInstance
	var marker *string
	for page := 1; ; page++ {
		out, err := c.RDS.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
			Marker: marker,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe RDS instances: %w", err)
		}
		c.logger().Debug("described database instances", zap.Int("page", page), zap.Int("instances", len(out.DBInstances)))

		for _, db := range out.DBInstances {
			if db.Endpoint == nil || db.Endpoint.Address == nil {
				continue
			}
			instances = append(instances, DBInstance{
				ID:   getString(db.DBInstanceIdentifier),
				Host: getString(db.Endpoint.Address),
				Port: getInt32Value(db.Endpoint.Port),
			})
		}

		if out.Marker == nil || *out.Marker == "" {
			break
		}
		marker = out.Marker
	}

	return instances, nil
}
