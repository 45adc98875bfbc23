package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecsTypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"go.uber.org/zap"
)

// Describe batch limits enforced by the ECS API.
const (
	maxDescribeClusters = 100
	maxDescribeServices = 10
	maxDescribeTasks    = 100
)

// ECSCluster represents a simplified ECS cluster summary.
type ECSCluster struct {
	Name string
	Arn  string
}

// ECSService represents a service inside a cluster.
type ECSService struct {
	Name string
	Arn  string
}

// ECSContainer is a container of a running task, addressable by its runtime id.
type ECSContainer struct {
	Name      string
	RuntimeID string
}

// ECSTask represents a running task and its containers.
type ECSTask struct {
	Arn        string
	Containers []ECSContainer
}

// ListClusters returns every ECS cluster in the account and region.
func (c *Client) ListClusters(ctx context.Context) ([]ECSCluster, error) {
	if c.ECS == nil {
		return nil, fmt.Errorf("ECS client not initialized")
	}

	var clusters []ECSCluster
	var nextToken *string
	for page := 1; ; page++ {
		out, err := c.ECS.ListClusters(ctx, &ecs.ListClustersInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list ECS clusters: %w", err)
		}
		c.logger().Debug("listed clusters", zap.Int("page", page), zap.Int("arns", len(out.ClusterArns)))

		for _, batch := range chunk(out.ClusterArns, maxDescribeClusters) {
			descOut, err := c.ECS.DescribeClusters(ctx, &ecs.DescribeClustersInput{
				Clusters: batch,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to describe ECS clusters: %w", err)
			}
			for _, cl := range descOut.Clusters {
				clusters = append(clusters, ECSCluster{
					Name: getString(cl.ClusterName),
					Arn:  getString(cl.ClusterArn),
				})
			}
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return clusters, nil
}

// ListServices returns every service of a cluster. Pages are concatenated in
// the order the API returns them; pages without ARNs cost no describe call.
func (c *Client) ListServices(ctx context.Context, clusterArn string) ([]ECSService, error) {
	if c.ECS == nil {
		return nil, fmt.Errorf("ECS client not initialized")
	}

	var services []ECSService
	var nextToken *string
	for page := 1; ; page++ {
		listOut, err := c.ECS.ListServices(ctx, &ecs.ListServicesInput{
			Cluster:   &clusterArn,
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list ECS services: %w", err)
		}
		c.logger().Debug("listed services",
			zap.String("cluster", clusterArn),
			zap.Int("page", page),
			zap.Int("arns", len(listOut.ServiceArns)))

		for _, batch := range chunk(listOut.ServiceArns, maxDescribeServices) {
			descOut, err := c.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
				Cluster:  &clusterArn,
				Services: batch,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to describe ECS services: %w", err)
			}
			for _, svc := range descOut.Services {
				services = append(services, ECSService{
					Name: getString(svc.ServiceName),
					Arn:  getString(svc.ServiceArn),
				})
			}
		}

		if listOut.NextToken == nil {
			break
		}
		nextToken = listOut.NextToken
	}

	return services, nil
}

// ListRunningTasks returns the tasks of a service whose desired status is
// RUNNING, with their containers.
func (c *Client) ListRunningTasks(ctx context.Context, clusterArn, serviceName string) ([]ECSTask, error) {
	if c.ECS == nil {
		return nil, fmt.Errorf("ECS client not initialized")
	}

	var tasks []ECSTask
	var nextToken *string
	for page := 1; ; page++ {
		listOut, err := c.ECS.ListTasks(ctx, &ecs.ListTasksInput{
			Cluster:       &clusterArn,
			ServiceName:   &serviceName,
			DesiredStatus: ecsTypes.DesiredStatusRunning,
			NextToken:     nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list ECS tasks: %w", err)
		}
		c.logger().Debug("listed tasks",
			zap.String("cluster", clusterArn),
			zap.String("service", serviceName),
			zap.Int("page", page),
			zap.Int("arns", len(listOut.TaskArns)))

		for _, batch := range chunk(listOut.TaskArns, maxDescribeTasks) {
			descOut, err := c.ECS.DescribeTasks(ctx, &ecs.DescribeTasksInput{
				Cluster: &clusterArn,
				Tasks:   batch,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to describe ECS tasks: %w", err)
			}
			for _, t := range descOut.Tasks {
				task := ECSTask{Arn: getString(t.TaskArn)}
				for _, ctn := range t.Containers {
					task.Containers = append(task.Containers, ECSContainer{
						Name:      getString(ctn.Name),
						RuntimeID: getString(ctn.RuntimeId),
					})
				}
				tasks = append(tasks, task)
			}
		}

		if listOut.NextToken == nil {
			break
		}
		nextToken = listOut.NextToken
	}

	return tasks, nil
}

// ExtractTaskID returns the part of a task ARN after "<clusterName>/". ARNs in
// the old format carry no cluster name, so the final segment is used instead.
func ExtractTaskID(taskArn, clusterName string) string {
	if clusterName != "" {
		marker := clusterName + "/"
		if i := strings.LastIndex(taskArn, marker); i >= 0 {
			return taskArn[i+len(marker):]
		}
	}
	parts := strings.Split(taskArn, "/")
	return parts[len(parts)-1]
}
