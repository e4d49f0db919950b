package stress

import (
	"errors"
	"fmt"
	"time"
)

// ErrCountMismatch is returned by Verify when the container lost or gained
// items relative to the successful inserts and removes.
var ErrCountMismatch = errors.New("stress: final count does not match seed + inserts - removes")

// Report summarises a finished run.
type Report struct {
	RunID   string `json:"run_id" yaml:"run_id"`
	Variant string `json:"variant" yaml:"variant"`
	Shape   string `json:"shape" yaml:"shape"`
	Untyped bool   `json:"untyped" yaml:"untyped"`
	Workers int    `json:"workers" yaml:"workers"`

	Seeded       int64 `json:"seeded" yaml:"seeded"`
	Inserts      int64 `json:"inserts" yaml:"inserts"`
	Removes      int64 `json:"removes" yaml:"removes"`
	Refused      int64 `json:"refused" yaml:"refused"`
	Reads        int64 `json:"reads" yaml:"reads"`
	Enumerations int64 `json:"enumerations" yaml:"enumerations"`
	Ops          int64 `json:"ops" yaml:"ops"`
	FinalCount   int64 `json:"final_count" yaml:"final_count"`

	Elapsed      time.Duration `json:"elapsed" yaml:"elapsed"`
	OpsPerSecond float64       `json:"ops_per_second" yaml:"ops_per_second"`
}

// Expected returns the item count implied by the recorded operations.
func (r *Report) Expected() int64 {
	return r.Seeded + r.Inserts - r.Removes
}

// Verify checks that the final count equals seed + inserts - removes.
func (r *Report) Verify() error {
	if r.FinalCount != r.Expected() {
		return fmt.Errorf("%w: got %d, want %d (seeded %d, inserts %d, removes %d)",
			ErrCountMismatch, r.FinalCount, r.Expected(), r.Seeded, r.Inserts, r.Removes)
	}
	return nil
}
