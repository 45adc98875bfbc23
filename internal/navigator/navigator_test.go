package navigator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noelruault/ecs-connect/internal/aws"
	"github.com/noelruault/ecs-connect/internal/selection"
	"github.com/noelruault/ecs-connect/internal/ui/prompt"
)

type fakeGateway struct {
	clusters  []aws.ECSCluster
	services  map[string][]aws.ECSService
	tasks     map[string][]aws.ECSTask
	databases []aws.DBInstance
	err       error

	calls map[string]int
}

func (f *fakeGateway) count(name string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeGateway) ListClusters(context.Context) ([]aws.ECSCluster, error) {
	f.count("clusters")
	return f.clusters, f.err
}

func (f *fakeGateway) ListServices(_ context.Context, clusterArn string) ([]aws.ECSService, error) {
	f.count("services")
	return f.services[clusterArn], f.err
}

func (f *fakeGateway) ListRunningTasks(_ context.Context, _, serviceName string) ([]aws.ECSTask, error) {
	f.count("tasks")
	return f.tasks[serviceName], f.err
}

func (f *fakeGateway) ListDatabaseInstances(context.Context) ([]aws.DBInstance, error) {
	f.count("databases")
	return f.databases, f.err
}

// scripted answers questions in order and records what was asked.
type scripted struct {
	answers   []prompt.Answer
	questions []prompt.Question
	err       error
}

func (s *scripted) Select(_ context.Context, q prompt.Question) (prompt.Answer, error) {
	s.questions = append(s.questions, q)
	if s.err != nil {
		return prompt.Answer{}, s.err
	}
	if len(s.answers) == 0 {
		return prompt.Answer{}, errors.New("script exhausted at " + q.Message)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func targetOf(t *testing.T, st *selection.State) string {
	t.Helper()
	target, err := st.Target()
	require.NoError(t, err)
	return target
}

func pick(i int) prompt.Answer { return prompt.Answer{Index: i} }

var sentinel = prompt.Answer{Index: -1, Sentinel: true}

const (
	webArn      = "arn:aws:ecs:eu-west-1:123456789012:cluster/web-prod"
	paymentsArn = "arn:aws:ecs:eu-west-1:123456789012:cluster/payments-prod"
)

func inventory() *fakeGateway {
	return &fakeGateway{
		clusters: []aws.ECSCluster{
			{Name: "web-prod", Arn: webArn},
			{Name: "payments-prod", Arn: paymentsArn},
		},
		services: map[string][]aws.ECSService{
			webArn: {
				{Name: "api", Arn: "arn:aws:ecs:eu-west-1:123456789012:service/web-prod/api"},
				{Name: "worker", Arn: "arn:aws:ecs:eu-west-1:123456789012:service/web-prod/worker"},
			},
			paymentsArn: {
				{Name: "ledger", Arn: "arn:aws:ecs:eu-west-1:123456789012:service/payments-prod/ledger"},
			},
		},
		tasks: map[string][]aws.ECSTask{
			"api": {{
				Arn:        "arn:aws:ecs:eu-west-1:123456789012:task/web-prod/abc123",
				Containers: []aws.ECSContainer{{Name: "app", RuntimeID: "xyz789"}},
			}},
			"worker": {{
				Arn: "arn:aws:ecs:eu-west-1:123456789012:task/web-prod/def456",
				Containers: []aws.ECSContainer{
					{Name: "worker", RuntimeID: "w1"},
					{Name: "log-router", RuntimeID: "lr1"},
				},
			}},
			"ledger": {{
				Arn:        "arn:aws:ecs:eu-west-1:123456789012:task/payments-prod/fff000",
				Containers: []aws.ECSContainer{{Name: "ledger", RuntimeID: "led1"}},
			}},
		},
		databases: []aws.DBInstance{
			{ID: "payments-db", Host: "payments-db.abc.eu-west-1.rds.amazonaws.com", Port: 3306},
			{ID: "web-db", Host: "web-db.abc.eu-west-1.rds.amazonaws.com", Port: 5432},
			{ID: "payments-replica", Host: "payments-replica.abc.eu-west-1.rds.amazonaws.com", Port: 3306},
		},
	}
}

func TestRunShellEndToEnd(t *testing.T) {
	gw := inventory()
	p := &scripted{answers: []prompt.Answer{pick(0), pick(0), pick(0), pick(0), pick(0)}}
	st := &selection.State{}

	require.NoError(t, New(gw, p, nil).Run(context.Background(), st))

	target, err := st.Target()
	require.NoError(t, err)
	assert.Equal(t, "ecs:web-prod_abc123_xyz789", target)
	assert.Equal(t, selection.ModeShell, st.Mode)
	assert.Nil(t, st.Database)

	require.Len(t, p.questions, 5)
	assert.Equal(t, prompt.Cancel, p.questions[0].Sentinel)
	for _, q := range p.questions[1:] {
		assert.Equal(t, prompt.GoBack, q.Sentinel, q.Message)
	}
	assert.Equal(t, []string{"abc123"}, p.questions[2].Options)
	assert.Equal(t, []string{"Shell", "Database"}, p.questions[4].Options)
}

func TestRunGoBackRefetchesAndOverwrites(t *testing.T) {
	gw := inventory()
	p := &scripted{answers: []prompt.Answer{
		pick(0),  // web-prod
		pick(0),  // api
		pick(0),  // abc123
		sentinel, // back from container to task
		sentinel, // back from task to service
		pick(1),  // worker
		pick(0),  // def456
		pick(1),  // log-router
		pick(0),  // Shell
	}}
	st := &selection.State{}

	require.NoError(t, New(gw, p, nil).Run(context.Background(), st))

	assert.Equal(t, 1, gw.calls["clusters"])
	assert.Equal(t, 2, gw.calls["services"])
	assert.Equal(t, 3, gw.calls["tasks"])

	assert.Equal(t, "worker", st.Service.Name)
	assert.Equal(t, "def456", st.TaskID)
	assert.Equal(t, []selection.Container{
		{Name: "worker", RuntimeID: "w1"},
		{Name: "log-router", RuntimeID: "lr1"},
	}, st.Containers)
	assert.Equal(t, "ecs:web-prod_def456_lr1", targetOf(t, st))
}

func TestRunGoBackToClusterClearsEverything(t *testing.T) {
	gw := inventory()
	p := &scripted{answers: []prompt.Answer{
		pick(0),  // web-prod
		sentinel, // back to cluster
		pick(1),  // payments-prod
		pick(0),  // ledger
		pick(0),  // fff000
		pick(0),  // ledger container
		pick(0),  // Shell
	}}
	st := &selection.State{}

	require.NoError(t, New(gw, p, nil).Run(context.Background(), st))
	assert.Equal(t, 2, gw.calls["clusters"])
	assert.Equal(t, "ecs:payments-prod_fff000_led1", targetOf(t, st))
}

func TestRunCancelAtFirstStep(t *testing.T) {
	gw := inventory()
	p := &scripted{answers: []prompt.Answer{sentinel}}
	st := &selection.State{}

	err := New(gw, p, nil).Run(context.Background(), st)
	require.ErrorIs(t, err, ErrCancelled)
	assert.Zero(t, gw.calls["services"])
	_, err = st.Target()
	assert.ErrorIs(t, err, selection.ErrIncompleteSelection)
}

func TestRunDatabaseMode(t *testing.T) {
	gw := inventory()
	p := &scripted{answers: []prompt.Answer{pick(1), pick(0), pick(0), pick(0), pick(1), pick(1)}}
	st := &selection.State{}

	require.NoError(t, New(gw, p, nil).Run(context.Background(), st))

	last := p.questions[len(p.questions)-1]
	assert.Equal(t, []string{"payments-db", "payments-replica"}, last.Options)
	assert.Equal(t, prompt.Cancel, last.Sentinel)

	assert.Equal(t, selection.ModeDatabase, st.Mode)
	require.NotNil(t, st.Database)
	assert.Equal(t, selection.DBTarget{
		InstanceID: "payments-replica",
		Host:       "payments-replica.abc.eu-west-1.rds.amazonaws.com",
		Port:       3306,
	}, *st.Database)
}

func TestRunCancelAtDatabase(t *testing.T) {
	gw := inventory()
	p := &scripted{answers: []prompt.Answer{pick(1), pick(0), pick(0), pick(0), pick(1), sentinel}}

	err := New(gw, p, nil).Run(context.Background(), &selection.State{})
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestRunNoMatchingDatabase(t *testing.T) {
	gw := inventory()
	gw.databases = []aws.DBInstance{{ID: "analytics-db"}}
	p := &scripted{answers: []prompt.Answer{pick(0), pick(0), pick(0), pick(0), pick(1)}}

	err := New(gw, p, nil).Run(context.Background(), &selection.State{})
	assert.ErrorIs(t, err, ErrNoDatabases)
}

func TestRunEmptyInventory(t *testing.T) {
	gw := inventory()
	gw.clusters = nil

	err := New(gw, &scripted{}, nil).Run(context.Background(), &selection.State{})
	assert.ErrorIs(t, err, ErrNoClusters)

	gw = inventory()
	gw.tasks = nil
	err = New(gw, &scripted{answers: []prompt.Answer{pick(0), pick(0)}}, nil).Run(context.Background(), &selection.State{})
	assert.ErrorIs(t, err, ErrNoTasks)
}

func TestRunPropagatesErrors(t *testing.T) {
	gw := inventory()
	gw.err = errors.New("failed to list ECS clusters: ExpiredToken")

	err := New(gw, &scripted{}, nil).Run(context.Background(), &selection.State{})
	assert.ErrorContains(t, err, "ExpiredToken")

	err = New(inventory(), &scripted{err: prompt.ErrInterrupted}, nil).Run(context.Background(), &selection.State{})
	assert.ErrorIs(t, err, prompt.ErrInterrupted)
}

func TestTransitions(t *testing.T) {
	order := []selection.Step{
		selection.StepCluster,
		selection.StepService,
		selection.StepTask,
		selection.StepContainer,
		selection.StepConnectionMode,
	}
	for i, step := range order {
		if i == 0 {
			assert.Equal(t, step, next(step, back), "first step loops onto itself")
		} else {
			assert.Equal(t, order[i-1], next(step, back), step.String())
		}
		if i < len(order)-1 {
			assert.Equal(t, order[i+1], next(step, forward), step.String())
		}
		assert.Equal(t, selection.StepCancelled, next(step, cancel))
	}
	assert.Equal(t, selection.StepCompleted, next(selection.StepConnectionMode, forward))
}

func TestMatchDatabases(t *testing.T) {
	instances := []aws.DBInstance{{ID: "payments-db"}, {ID: "web-db"}, {ID: "old-payments"}}

	got := MatchDatabases(instances, "payments-prod")
	assert.Equal(t, []aws.DBInstance{{ID: "payments-db"}, {ID: "old-payments"}}, got)
	assert.Empty(t, MatchDatabases(instances, "billing-prod"))
}

func TestRunStopAfterContainer(t *testing.T) {
	gw := inventory()
	p := &scripted{answers: []prompt.Answer{pick(0), pick(0), pick(0), pick(0)}}
	st := &selection.State{}

	nav := New(gw, p, nil).StopAfter(selection.StepContainer)
	require.NoError(t, nav.Run(context.Background(), st))

	assert.Len(t, p.questions, 4)
	assert.Equal(t, selection.ModeUnset, st.Mode)
	assert.Equal(t, "ecs:web-prod_abc123_xyz789", targetOf(t, st))
}
