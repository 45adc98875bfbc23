// Package selection holds the operator's choices while navigating from a
// cluster down to a container, and derives the session target from them.
package selection

import "strings"

// Step identifies one stage of the selection flow. Fields of State are owned
// by the step that writes them.
type Step int

const (
	StepCluster Step = iota
	StepService
	StepTask
	StepContainer
	StepConnectionMode

	// Terminal steps. Nothing is owned by them.
	StepCompleted
	StepCancelled
)

func (s Step) String() string {
	switch s {
	case StepCluster:
		return "cluster"
	case StepService:
		return "service"
	case StepTask:
		return "task"
	case StepContainer:
		return "container"
	case StepConnectionMode:
		return "connection-mode"
	case StepCompleted:
		return "completed"
	case StepCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Mode is how the session reaches the container.
type Mode int

const (
	ModeUnset Mode = iota
	ModeShell
	ModeDatabase
)

func (m Mode) String() string {
	switch m {
	case ModeShell:
		return "Shell"
	case ModeDatabase:
		return "Database"
	default:
		return ""
	}
}

// Resource is a named ECS resource and its ARN.
type Resource struct {
	Name string
	Arn  string
}

// Container is a container of the chosen task.
type Container struct {
	Name      string
	RuntimeID string
}

// DBTarget is the database a port forward connects to.
type DBTarget struct {
	InstanceID string
	Host       string
	Port       int32
}

// State holds the choices made so far.
type State struct {
	Cluster            Resource
	Service            Resource
	TaskID             string
	Containers         []Container
	ContainerRuntimeID string
	Mode               Mode
	Database           *DBTarget
}

// ResetFrom clears every field owned by step and the steps after it.
func (s *State) ResetFrom(step Step) {
	if step <= StepCluster {
		s.Cluster = Resource{}
	}
	if step <= StepService {
		s.Service = Resource{}
	}
	if step <= StepTask {
		s.TaskID = ""
		s.Containers = nil
	}
	if step <= StepContainer {
		s.ContainerRuntimeID = ""
	}
	if step <= StepConnectionMode {
		s.Mode = ModeUnset
		s.Database = nil
	}
}

// DatabasePrefix returns the cluster name without its last hyphen-delimited
// segment. Database instances paired with a cluster contain this prefix.
func DatabasePrefix(clusterName string) string {
	if i := strings.LastIndex(clusterName, "-"); i >= 0 {
		return clusterName[:i]
	}
	return clusterName
}
