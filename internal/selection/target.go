package selection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteSelection is returned when a target is requested before the
// cluster, task and container have been chosen.
var ErrIncompleteSelection = errors.New("incomplete selection")

// Target returns the session-manager target for the chosen container, in the
// form ecs:<cluster>_<task>_<runtimeId>.
func (s *State) Target() (string, error) {
	var missing []string
	if s.Cluster.Name == "" {
		missing = append(missing, "cluster")
	}
	if s.TaskID == "" {
		missing = append(missing, "task")
	}
	if s.ContainerRuntimeID == "" {
		missing = append(missing, "container")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing %s", ErrIncompleteSelection, strings.Join(missing, ", "))
	}
	return "ecs:" + s.Cluster.Name + "_" + s.TaskID + "_" + s.ContainerRuntimeID, nil
}
