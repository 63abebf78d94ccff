package workflow

import (
	"encoding/json"
	"fmt"

	"job-tracker-service/internal/entity"
)

// FinalizeKind discriminates the two shapes of an export finalize task.
type FinalizeKind string

const (
	FinalizeFullProcessing FinalizeKind = "FullProcessing"
	FinalizeErrorCallback  FinalizeKind = "ErrorCallback"
)

type ValidationParams struct{}

type PolygonPartsParams struct {
	ProcessedParts bool `json:"processedParts"`
}

type NewFinalizeParams struct {
	InsertedToCatalog   bool `json:"insertedToCatalog"`
	InsertedToGeoServer bool `json:"insertedToGeoServer"`
	InsertedToMapproxy  bool `json:"insertedToMapproxy"`
}

type UpdateFinalizeParams struct {
	UpdatedInCatalog bool `json:"updatedInCatalog"`
}

type SwapUpdateFinalizeParams struct {
	UpdatedInCatalog  bool `json:"updatedInCatalog"`
	UpdatedInMapproxy bool `json:"updatedInMapproxy"`
}

type ExportFinalizeParams struct {
	Type             FinalizeKind `json:"type"`
	GpkgModified     bool         `json:"gpkgModified"`
	GpkgUploadedToS3 bool         `json:"gpkgUploadedToS3"`
	CallbacksSent    bool         `json:"callbacksSent"`
}

type ErrorCallbackFinalizeParams struct {
	Type          FinalizeKind `json:"type"`
	CallbacksSent bool         `json:"callbacksSent"`
}

type paramKey struct {
	jobType  string
	taskType string
}

// ParameterResolver maps a (job type, task type) pair to the default
// parameters of a freshly created task. Lookups are exact and case-sensitive.
type ParameterResolver struct {
	defaults map[paramKey]json.RawMessage
}

func NewParameterResolver() *ParameterResolver {
	return &ParameterResolver{defaults: map[paramKey]json.RawMessage{}}
}

// Register stores the default payload for the pair, replacing any previous one.
func (r *ParameterResolver) Register(jobType, taskType string, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal parameters for %s/%s: %w", jobType, taskType, err)
	}
	r.defaults[paramKey{jobType, taskType}] = raw
	return nil
}

// Resolve returns a copy of the registered payload. A missing mapping is a
// configuration defect and yields entity.ErrBadRequest.
func (r *ParameterResolver) Resolve(jobType, taskType string) (json.RawMessage, error) {
	raw, ok := r.defaults[paramKey{jobType, taskType}]
	if !ok {
		return nil, fmt.Errorf("%w: no task parameters registered for job type %q and task type %q",
			entity.ErrBadRequest, jobType, taskType)
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, nil
}

// Has reports whether a mapping exists for the pair.
func (r *ParameterResolver) Has(jobType, taskType string) bool {
	_, ok := r.defaults[paramKey{jobType, taskType}]
	return ok
}

// DefaultParameters registers the stock payloads for every stage the default
// flows can create.
func DefaultParameters(defs Definitions) (*ParameterResolver, error) {
	r := NewParameterResolver()
	t := defs.Tasks

	finalizers := map[string]any{
		defs.Jobs.New:        NewFinalizeParams{},
		defs.Jobs.Update:     UpdateFinalizeParams{},
		defs.Jobs.SwapUpdate: SwapUpdateFinalizeParams{},
	}
	for jobType, finalize := range finalizers {
		entries := map[string]any{
			t.Validation:   ValidationParams{},
			t.PolygonParts: PolygonPartsParams{},
			t.Finalize:     finalize,
		}
		for taskType, params := range entries {
			if err := r.Register(jobType, taskType, params); err != nil {
				return nil, err
			}
		}
	}

	if err := r.Register(defs.Jobs.Export, t.Finalize, ExportFinalizeParams{Type: FinalizeFullProcessing}); err != nil {
		return nil, err
	}
	return r, nil
}

// CheckCompleteness returns an error naming every (job type, task type) pair
// reachable through the configured flows that has no registered payload.
func (r *ParameterResolver) CheckCompleteness(defs Definitions) error {
	var missing []string
	for _, kind := range Kinds() {
		flow := defs.Flow(kind)
		for _, jobType := range defs.JobTypesOf(kind) {
			for _, taskType := range flow.Reachable() {
				if !r.Has(jobType, taskType) {
					missing = append(missing, jobType+"/"+taskType)
				}
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing task parameters for %v", entity.ErrBadRequest, missing)
	}
	return nil
}
