package batch

import (
	"encoding/json"
	"fmt"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
)

// JobSpec is the on-disk form of a job. Data is any dataset dataset.Decode accepts.
type JobSpec struct {
	ID   string          `json:"id,omitempty"`
	Goal string          `json:"goal"`
	Data json.RawMessage `json:"data"`
}

// DecodeJobs parses a JSON array of job specs and cleans each dataset with opts.
// Jobs without an id are numbered from 1.
func DecodeJobs(data []byte, opts dataset.CleanOptions) ([]Job, error) {
	var specs []JobSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	jobs := make([]Job, 0, len(specs))
	for i, spec := range specs {
		id := spec.ID
		if id == "" {
			id = fmt.Sprintf("job-%d", i+1)
		}
		if len(spec.Data) == 0 {
			return nil, fmt.Errorf("decode jobs: %s: missing data", id)
		}
		raw, err := dataset.Decode(spec.Data)
		if err != nil {
			return nil, fmt.Errorf("decode jobs: %s: %w", id, err)
		}
		m, err := dataset.Clean(raw, opts)
		if err != nil {
			return nil, fmt.Errorf("decode jobs: %s: %w", id, err)
		}
		jobs = append(jobs, Job{ID: id, Goal: spec.Goal, Matrix: m})
	}
	return jobs, nil
}
