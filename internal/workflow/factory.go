package workflow

import (
	"fmt"

	"github.com/rs/zerolog"

	"job-tracker-service/internal/entity"
)

// Factory selects the engine that drives a job from its declared type.
type Factory struct {
	defs    Definitions
	engines map[Kind]*Engine
}

// NewFactory builds one engine per workflow kind. Definitions must already be valid.
func NewFactory(jm JobManager, defs Definitions, params *ParameterResolver, logger zerolog.Logger) (*Factory, error) {
	f := &Factory{defs: defs, engines: make(map[Kind]*Engine, len(Kinds()))}
	for _, kind := range Kinds() {
		strategy, err := NewStrategy(kind, defs)
		if err != nil {
			return nil, err
		}
		f.engines[kind] = NewEngine(jm, strategy, params, defs.Tasks.Init, logger)
	}
	return f, nil
}

// KindOf maps a job type name onto its workflow kind.
func (f *Factory) KindOf(jobType string) (Kind, error) {
	switch jobType {
	case f.defs.Jobs.New, f.defs.Jobs.Update, f.defs.Jobs.SwapUpdate:
		return KindIngestion, nil
	case f.defs.Jobs.Export:
		return KindExport, nil
	case f.defs.Jobs.Seed:
		return KindSeed, nil
	default:
		return 0, fmt.Errorf("%w: unsupported job type %q", entity.ErrBadRequest, jobType)
	}
}

// Resolve returns the engine for jobType or entity.ErrBadRequest for unknown types.
func (f *Factory) Resolve(jobType string) (*Engine, error) {
	kind, err := f.KindOf(jobType)
	if err != nil {
		return nil, err
	}
	return f.engines[kind], nil
}
