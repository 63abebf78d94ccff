package workflow

import "fmt"

// JobTypes names the job types the tracker knows how to drive.
type JobTypes struct {
	New        string `yaml:"new" validate:"required"`
	Update     string `yaml:"update" validate:"required"`
	SwapUpdate string `yaml:"swapUpdate" validate:"required"`
	Export     string `yaml:"export" validate:"required"`
	Seed       string `yaml:"seed" validate:"required"`
}

// TaskTypes names the pipeline stages.
type TaskTypes struct {
	Init         string `yaml:"init" validate:"required"`
	Merge        string `yaml:"merge" validate:"required"`
	Validation   string `yaml:"validation" validate:"required"`
	PolygonParts string `yaml:"polygonParts" validate:"required"`
	Finalize     string `yaml:"finalize" validate:"required"`
	Export       string `yaml:"export" validate:"required"`
	Seed         string `yaml:"seed" validate:"required"`
}

type Flows struct {
	Ingestion FlowDefinition `yaml:"ingestion"`
	Export    FlowDefinition `yaml:"export"`
	Seed      FlowDefinition `yaml:"seed"`
}

// Definitions is the externally supplied workflow configuration.
type Definitions struct {
	Jobs  JobTypes  `yaml:"jobs"`
	Tasks TaskTypes `yaml:"tasks"`
	Flows Flows     `yaml:"flows"`
}

// DefaultDefinitions returns the stock raster pipeline topology.
func DefaultDefinitions() Definitions {
	tasks := TaskTypes{
		Init:         "init",
		Merge:        "tilesMerging",
		Validation:   "validation",
		PolygonParts: "polygon-parts",
		Finalize:     "finalize",
		Export:       "tilesExporting",
		Seed:         "TilesSeeding",
	}

	return Definitions{
		Jobs: JobTypes{
			New:        "Ingestion_New",
			Update:     "Ingestion_Update",
			SwapUpdate: "Ingestion_Swap_Update",
			Export:     "Export",
			Seed:       "TilesSeeding",
		},
		Tasks: tasks,
		Flows: Flows{
			Ingestion: FlowDefinition{
				Sequence:             []string{tasks.Init, tasks.Merge, tasks.Validation, tasks.PolygonParts, tasks.Finalize},
				ExcludedFromCreation: []string{tasks.Merge},
				BlockDuplicationFor:  []string{tasks.Validation, tasks.PolygonParts, tasks.Finalize},
				SuspendOnFailureOf:   []string{tasks.PolygonParts, tasks.Finalize},
			},
			Export: FlowDefinition{
				Sequence:             []string{tasks.Init, tasks.Export, tasks.Finalize},
				ExcludedFromCreation: []string{tasks.Export},
				BlockDuplicationFor:  []string{tasks.Finalize},
			},
			Seed: FlowDefinition{
				Sequence: []string{tasks.Seed},
			},
		},
	}
}

// Flow returns the flow definition used by the given kind.
func (d Definitions) Flow(kind Kind) FlowDefinition {
	switch kind {
	case KindIngestion:
		return d.Flows.Ingestion
	case KindExport:
		return d.Flows.Export
	default:
		return d.Flows.Seed
	}
}

// JobTypesOf lists the job type names driven by kind.
func (d Definitions) JobTypesOf(kind Kind) []string {
	switch kind {
	case KindIngestion:
		return []string{d.Jobs.New, d.Jobs.Update, d.Jobs.SwapUpdate}
	case KindExport:
		return []string{d.Jobs.Export}
	default:
		return []string{d.Jobs.Seed}
	}
}

// Validate checks every flow plus the cross-references between names and flows.
func (d Definitions) Validate() error {
	for _, kind := range Kinds() {
		if err := d.Flow(kind).Validate(); err != nil {
			return fmt.Errorf("%s flow: %w", kind, err)
		}
	}

	seen := map[string]Kind{}
	for _, kind := range Kinds() {
		for _, jobType := range d.JobTypesOf(kind) {
			if prev, dup := seen[jobType]; dup {
				return fmt.Errorf("job type %q is mapped to both %s and %s", jobType, prev, kind)
			}
			seen[jobType] = kind
		}
	}
	return nil
}
