// Package navigator drives the operator from a cluster down to a container
// and a connection mode, one prompt at a time, with one level of "Go Back".
package navigator

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noelruault/ecs-connect/internal/aws"
	"github.com/noelruault/ecs-connect/internal/selection"
	"github.com/noelruault/ecs-connect/internal/ui/prompt"
)

// ErrCancelled is returned by Run when the operator chose Cancel.
var ErrCancelled = errors.New("cancelled by operator")

// Gateway lists the inventory shown at each step.
type Gateway interface {
	ListClusters(ctx context.Context) ([]aws.ECSCluster, error)
	ListServices(ctx context.Context, clusterArn string) ([]aws.ECSService, error)
	ListRunningTasks(ctx context.Context, clusterArn, serviceName string) ([]aws.ECSTask, error)
	ListDatabaseInstances(ctx context.Context) ([]aws.DBInstance, error)
}

// Prompter asks one single-choice question.
type Prompter interface {
	Select(ctx context.Context, q prompt.Question) (prompt.Answer, error)
}

type outcome int

const (
	forward outcome = iota
	back
	cancel
)

type transition struct {
	forward selection.Step
	back    selection.Step
}

// transitions is the navigation graph. Back from the first step loops onto
// itself; that step offers Cancel instead of Go Back, so it is never taken
// by an operator.
var transitions = map[selection.Step]transition{
	selection.StepCluster:        {forward: selection.StepService, back: selection.StepCluster},
	selection.StepService:        {forward: selection.StepTask, back: selection.StepCluster},
	selection.StepTask:           {forward: selection.StepContainer, back: selection.StepService},
	selection.StepContainer:      {forward: selection.StepConnectionMode, back: selection.StepTask},
	selection.StepConnectionMode: {forward: selection.StepCompleted, back: selection.StepContainer},
}

type stepFunc func(ctx context.Context, st *selection.State) (outcome, error)

// Navigator runs the selection steps against a Gateway and a Prompter.
type Navigator struct {
	gateway  Gateway
	prompter Prompter
	log      *zap.Logger
	steps    map[selection.Step]stepFunc
	last     selection.Step
}

// New returns a Navigator. A nil logger disables logging.
func New(gateway Gateway, prompter Prompter, log *zap.Logger) *Navigator {
	if log == nil {
		log = zap.NewNop()
	}
	n := &Navigator{
		gateway:  gateway,
		prompter: prompter,
		log:      log,
		last:     selection.StepConnectionMode,
	}
	n.steps = map[selection.Step]stepFunc{
		selection.StepCluster:        n.chooseCluster,
		selection.StepService:        n.chooseService,
		selection.StepTask:           n.chooseTask,
		selection.StepContainer:      n.chooseContainer,
		selection.StepConnectionMode: n.chooseConnectionMode,
	}
	return n
}

// StopAfter ends the run once step completes. Print-only runs stop after the
// container because the target does not depend on the connection mode.
func (n *Navigator) StopAfter(step selection.Step) *Navigator {
	n.last = step
	return n
}

// Run walks the steps until the operator completes or cancels. On
// completion st holds a full selection. Every step re-fetches its inventory
// and clears what it and later steps own before prompting.
func (n *Navigator) Run(ctx context.Context, st *selection.State) error {
	step := selection.StepCluster
	for {
		switch step {
		case selection.StepCompleted:
			return nil
		case selection.StepCancelled:
			return ErrCancelled
		}

		st.ResetFrom(step)
		out, err := n.steps[step](ctx, st)
		if err != nil {
			return err
		}

		to := next(step, out)
		if step == n.last && out == forward {
			to = selection.StepCompleted
		}
		n.log.Debug("step finished",
			zap.Stringer("step", step),
			zap.Int("outcome", int(out)),
			zap.Stringer("next", to))
		step = to
	}
}

func next(step selection.Step, out outcome) selection.Step {
	switch out {
	case cancel:
		return selection.StepCancelled
	case back:
		return transitions[step].back
	default:
		return transitions[step].forward
	}
}
