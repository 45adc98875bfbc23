package navigator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/noelruault/ecs-connect/internal/aws"
	"github.com/noelruault/ecs-connect/internal/selection"
	"github.com/noelruault/ecs-connect/internal/ui/prompt"
)

// Empty inventory at any step ends the run.
var (
	ErrNoClusters   = errors.New("no ECS clusters found")
	ErrNoServices   = errors.New("no services found in cluster")
	ErrNoTasks      = errors.New("no running tasks found for service")
	ErrNoContainers = errors.New("no containers found in task")
	ErrNoDatabases  = errors.New("no database instances found for cluster")
)

var modes = []selection.Mode{selection.ModeShell, selection.ModeDatabase}

// ask prompts and turns a sentinel answer into the matching outcome.
func (n *Navigator) ask(ctx context.Context, q prompt.Question) (int, outcome, error) {
	ans, err := n.prompter.Select(ctx, q)
	if err != nil {
		return 0, forward, err
	}
	if ans.Sentinel {
		if q.Sentinel == prompt.Cancel {
			return 0, cancel, nil
		}
		return 0, back, nil
	}
	if ans.Index < 0 || ans.Index >= len(q.Options) {
		return 0, forward, fmt.Errorf("answer %d out of range for %q", ans.Index, q.Message)
	}
	return ans.Index, forward, nil
}

func (n *Navigator) chooseCluster(ctx context.Context, st *selection.State) (outcome, error) {
	clusters, err := n.gateway.ListClusters(ctx)
	if err != nil {
		return forward, err
	}
	if len(clusters) == 0 {
		return forward, ErrNoClusters
	}

	names := make([]string, len(clusters))
	for i, c := range clusters {
		names[i] = c.Name
	}
	i, out, err := n.ask(ctx, prompt.Question{
		Message:  "Choose your cluster",
		Options:  names,
		Sentinel: prompt.Cancel,
	})
	if err != nil || out != forward {
		return out, err
	}

	st.Cluster = selection.Resource{Name: clusters[i].Name, Arn: clusters[i].Arn}
	return forward, nil
}

func (n *Navigator) chooseService(ctx context.Context, st *selection.State) (outcome, error) {
	services, err := n.gateway.ListServices(ctx, st.Cluster.Arn)
	if err != nil {
		return forward, err
	}
	if len(services) == 0 {
		return forward, fmt.Errorf("%w %s", ErrNoServices, st.Cluster.Name)
	}

	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
	}
	i, out, err := n.ask(ctx, prompt.Question{
		Message:  "Choose service inside a cluster",
		Options:  names,
		Sentinel: prompt.GoBack,
	})
	if err != nil || out != forward {
		return out, err
	}

	st.Service = selection.Resource{Name: services[i].Name, Arn: services[i].Arn}
	return forward, nil
}

func (n *Navigator) chooseTask(ctx context.Context, st *selection.State) (outcome, error) {
	tasks, err := n.gateway.ListRunningTasks(ctx, st.Cluster.Arn, st.Service.Name)
	if err != nil {
		return forward, err
	}
	if len(tasks) == 0 {
		return forward, fmt.Errorf("%w %s", ErrNoTasks, st.Service.Name)
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = aws.ExtractTaskID(t.Arn, st.Cluster.Name)
	}
	i, out, err := n.ask(ctx, prompt.Question{
		Message:  "Choose task inside service",
		Options:  ids,
		Sentinel: prompt.GoBack,
	})
	if err != nil || out != forward {
		return out, err
	}

	st.TaskID = ids[i]
	st.Containers = make([]selection.Container, len(tasks[i].Containers))
	for j, c := range tasks[i].Containers {
		st.Containers[j] = selection.Container{Name: c.Name, RuntimeID: c.RuntimeID}
	}
	return forward, nil
}

// chooseContainer offers the containers captured with the chosen task.
func (n *Navigator) chooseContainer(ctx context.Context, st *selection.State) (outcome, error) {
	if len(st.Containers) == 0 {
		return forward, fmt.Errorf("%w %s", ErrNoContainers, st.TaskID)
	}

	names := make([]string, len(st.Containers))
	for i, c := range st.Containers {
		names[i] = c.Name
	}
	i, out, err := n.ask(ctx, prompt.Question{
		Message:  "Choose container to connect",
		Options:  names,
		Sentinel: prompt.GoBack,
	})
	if err != nil || out != forward {
		return out, err
	}

	st.ContainerRuntimeID = st.Containers[i].RuntimeID
	return forward, nil
}

func (n *Navigator) chooseConnectionMode(ctx context.Context, st *selection.State) (outcome, error) {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	i, out, err := n.ask(ctx, prompt.Question{
		Message:  "Choose connection mode",
		Options:  names,
		Sentinel: prompt.GoBack,
	})
	if err != nil || out != forward {
		return out, err
	}

	if modes[i] == selection.ModeDatabase {
		db, out, err := n.chooseDatabase(ctx, st.Cluster.Name)
		if err != nil || out != forward {
			return out, err
		}
		st.Database = db
	}
	st.Mode = modes[i]
	return forward, nil
}

// chooseDatabase offers the RDS instances paired with the cluster.
func (n *Navigator) chooseDatabase(ctx context.Context, clusterName string) (*selection.DBTarget, outcome, error) {
	instances, err := n.gateway.ListDatabaseInstances(ctx)
	if err != nil {
		return nil, forward, err
	}
	matched := MatchDatabases(instances, clusterName)
	if len(matched) == 0 {
		return nil, forward, fmt.Errorf("%w %s", ErrNoDatabases, clusterName)
	}

	ids := make([]string, len(matched))
	for i, db := range matched {
		ids[i] = db.ID
	}
	i, out, err := n.ask(ctx, prompt.Question{
		Message:  "Choose database instance",
		Options:  ids,
		Sentinel: prompt.Cancel,
	})
	if err != nil || out != forward {
		return nil, out, err
	}

	db := matched[i]
	return &selection.DBTarget{InstanceID: db.ID, Host: db.Host, Port: db.Port}, forward, nil
}

// MatchDatabases keeps the instances whose identifier contains the cluster
// name without its last hyphen-delimited segment.
func MatchDatabases(instances []aws.DBInstance, clusterName string) []aws.DBInstance {
	prefix := selection.DatabasePrefix(clusterName)
	var matched []aws.DBInstance
	for _, db := range instances {
		if strings.Contains(db.ID, prefix) {
			matched = append(matched, db)
		}
	}
	return matched
}
