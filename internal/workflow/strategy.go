package workflow

import (
	"encoding/json"
	"fmt"

	"job-tracker-service/internal/entity"
)

// Kind is the closed set of workflow variants.
type Kind int

const (
	KindIngestion Kind = iota + 1
	KindExport
	KindSeed
)

func Kinds() []Kind { return []Kind{KindIngestion, KindExport, KindSeed} }

func (k Kind) String() string {
	switch k {
	case KindIngestion:
		return "ingestion"
	case KindExport:
		return "export"
	case KindSeed:
		return "seed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Readiness is a strategy's verdict on whether a completed task lets the job advance.
type Readiness struct {
	Proceed bool
	// Suspend asks the engine to suspend the job with Reason instead of
	// only refreshing its progress.
	Suspend bool
	Reason  string
}

var proceed = Readiness{Proceed: true}

// FailurePlan replaces the generic failure branch. FollowUp is created and
// counted towards progress before the job is failed.
type FailurePlan struct {
	FollowUp *entity.CreateTaskRequest
}

// Strategy holds the job-type specific hooks of the engine.
type Strategy interface {
	Kind() Kind
	Flow() FlowDefinition
	// CanProceed inspects a completed task. A malformed parameter payload is
	// reported as an entity.ErrBadRequest error.
	CanProceed(job *entity.Job, task *entity.Task) (Readiness, error)
	// PlanFailure returns nil when the generic suspend-or-fail rule applies.
	PlanFailure(job *entity.Job, task *entity.Task) (*FailurePlan, error)
}

// NewStrategy builds the strategy for kind from the definitions.
func NewStrategy(kind Kind, defs Definitions) (Strategy, error) {
	switch kind {
	case KindIngestion:
		return &ingestionStrategy{flow: defs.Flows.Ingestion, tasks: defs.Tasks}, nil
	case KindExport:
		return &exportStrategy{flow: defs.Flows.Export, tasks: defs.Tasks}, nil
	case KindSeed:
		return &seedStrategy{flow: defs.Flows.Seed}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported workflow kind %s", entity.ErrBadRequest, kind)
	}
}

type ingestionStrategy struct {
	flow  FlowDefinition
	tasks TaskTypes
}

func (s *ingestionStrategy) Kind() Kind           { return KindIngestion }
func (s *ingestionStrategy) Flow() FlowDefinition { return s.flow }

// CanProceed holds the job back when a validation task found the source invalid.
func (s *ingestionStrategy) CanProceed(_ *entity.Job, task *entity.Task) (Readiness, error) {
	if task.Type != s.tasks.Validation {
		return proceed, nil
	}

	var p struct {
		IsValid *bool  `json:"isValid"`
		Reason  string `json:"reason"`
	}
	if len(task.Parameters) == 0 {
		return Readiness{}, fmt.Errorf("%w: validation task %s has no parameters", entity.ErrBadRequest, task.ID)
	}
	if err := json.Unmarshal(task.Parameters, &p); err != nil {
		return Readiness{}, fmt.Errorf("%w: validation task %s parameters: %v", entity.ErrBadRequest, task.ID, err)
	}
	if p.IsValid == nil {
		return Readiness{}, fmt.Errorf("%w: validation task %s parameters lack isValid", entity.ErrBadRequest, task.ID)
	}
	if *p.IsValid {
		return proceed, nil
	}

	reason := p.Reason
	if reason == "" {
		reason = fmt.Sprintf("validation task %s reported invalid source data", task.ID)
	}
	return Readiness{Suspend: true, Reason: reason}, nil
}

func (s *ingestionStrategy) PlanFailure(*entity.Job, *entity.Task) (*FailurePlan, error) {
	return nil, nil
}

type exportStrategy struct {
	flow  FlowDefinition
	tasks TaskTypes
}

func (s *exportStrategy) Kind() Kind           { return KindExport }
func (s *exportStrategy) Flow() FlowDefinition { return s.flow }

// CanProceed never lets an error-callback finalize advance or complete the job.
func (s *exportStrategy) CanProceed(_ *entity.Job, task *entity.Task) (Readiness, error) {
	if task.Type != s.tasks.Finalize {
		return proceed, nil
	}

	kind, err := finalizeKindOf(task)
	if err != nil {
		return Readiness{}, err
	}
	if kind == FinalizeErrorCallback {
		return Readiness{}, nil
	}
	return proceed, nil
}

// PlanFailure turns a failed export stage into an error-callback finalize task.
func (s *exportStrategy) PlanFailure(_ *entity.Job, task *entity.Task) (*FailurePlan, error) {
	if task.Type != s.tasks.Export {
		return nil, nil
	}

	params, err := json.Marshal(ErrorCallbackFinalizeParams{Type: FinalizeErrorCallback})
	if err != nil {
		return nil, err
	}
	return &FailurePlan{FollowUp: &entity.CreateTaskRequest{
		Type:             s.tasks.Finalize,
		Parameters:       params,
		BlockDuplication: s.flow.BlocksDuplication(s.tasks.Finalize),
	}}, nil
}

func finalizeKindOf(task *entity.Task) (FinalizeKind, error) {
	var p struct {
		Type FinalizeKind `json:"type"`
	}
	if len(task.Parameters) == 0 {
		return "", fmt.Errorf("%w: finalize task %s has no parameters", entity.ErrBadRequest, task.ID)
	}
	if err := json.Unmarshal(task.Parameters, &p); err != nil {
		return "", fmt.Errorf("%w: finalize task %s parameters: %v", entity.ErrBadRequest, task.ID, err)
	}
	switch p.Type {
	case FinalizeFullProcessing, FinalizeErrorCallback:
		return p.Type, nil
	default:
		return "", fmt.Errorf("%w: finalize task %s has unknown type %q", entity.ErrBadRequest, task.ID, p.Type)
	}
}

type seedStrategy struct {
	flow FlowDefinition
}

func (s *seedStrategy) Kind() Kind           { return KindSeed }
func (s *seedStrategy) Flow() FlowDefinition { return s.flow }

func (s *seedStrategy) CanProceed(*entity.Job, *entity.Task) (Readiness, error) {
	return proceed, nil
}

func (s *seedStrategy) PlanFailure(*entity.Job, *entity.Task) (*FailurePlan, error) {
	return nil, nil
}
