package workflow

import (
	"errors"
	"fmt"
	"slices"
)

// FlowDefinition is the static task topology of one job type.
type FlowDefinition struct {
	// Sequence is the nominal path from the first stage to the last.
	Sequence []string `yaml:"sequence" validate:"required,min=1,dive,required"`
	// ExcludedFromCreation lists stages created by someone else; the tracker skips over them.
	ExcludedFromCreation []string `yaml:"excludedFromCreation,omitempty"`
	// BlockDuplicationFor lists stages the Job Manager keeps at one live instance per job.
	BlockDuplicationFor []string `yaml:"blockDuplicationFor,omitempty"`
	// SuspendOnFailureOf lists stages whose failure suspends the job instead of failing it.
	SuspendOnFailureOf []string `yaml:"suspendOnFailureOf,omitempty"`
}

// NextTaskType returns the first stage after current that the tracker may create.
// ok is false when the scan runs off the end of the sequence, including when
// current is not part of the flow at all.
func (f FlowDefinition) NextTaskType(current string) (next string, ok bool) {
	idx := slices.Index(f.Sequence, current)
	if idx < 0 {
		return "", false
	}
	for _, candidate := range f.Sequence[idx+1:] {
		if f.IsExcluded(candidate) {
			continue
		}
		return candidate, true
	}
	return "", false
}

// IsTerminal reports whether taskType is the last stage of the flow.
func (f FlowDefinition) IsTerminal(taskType string) bool {
	return len(f.Sequence) > 0 && f.Sequence[len(f.Sequence)-1] == taskType
}

func (f FlowDefinition) IsExcluded(taskType string) bool {
	return slices.Contains(f.ExcludedFromCreation, taskType)
}

func (f FlowDefinition) BlocksDuplication(taskType string) bool {
	return slices.Contains(f.BlockDuplicationFor, taskType)
}

func (f FlowDefinition) SuspendsOnFailure(taskType string) bool {
	return slices.Contains(f.SuspendOnFailureOf, taskType)
}

// Reachable lists every stage NextTaskType can return, in flow order.
func (f FlowDefinition) Reachable() []string {
	var out []string
	for _, current := range f.Sequence {
		next, ok := f.NextTaskType(current)
		if ok && !slices.Contains(out, next) {
			out = append(out, next)
		}
	}
	return out
}

// Validate checks the structural invariants of the flow.
func (f FlowDefinition) Validate() error {
	if len(f.Sequence) == 0 {
		return errors.New("sequence is empty")
	}

	seen := make(map[string]struct{}, len(f.Sequence))
	for _, t := range f.Sequence {
		if t == "" {
			return errors.New("sequence contains an empty task type")
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("task type %q appears more than once in sequence", t)
		}
		seen[t] = struct{}{}
	}

	subsets := []struct {
		name  string
		types []string
	}{
		{"excludedFromCreation", f.ExcludedFromCreation},
		{"blockDuplicationFor", f.BlockDuplicationFor},
		{"suspendOnFailureOf", f.SuspendOnFailureOf},
	}
	for _, s := range subsets {
		for _, t := range s.types {
			if _, ok := seen[t]; !ok {
				return fmt.Errorf("%s: task type %q is not part of the sequence", s.name, t)
			}
		}
	}
	return nil
}
