package pipeline

import (
	"plugpack/internal/collector"
)

// Status is the result of processing one bundle.
type Status string

const (
	StatusArchived         Status = "archived"
	StatusSkippedNoManual  Status = "skipped_no_manual"
	StatusSkippedNoVersion Status = "skipped_no_version"
	StatusFailed           Status = "failed"
)

// Skipped reports whether the bundle was left in staging by a soft failure.
func (s Status) Skipped() bool {
	return s == StatusSkippedNoManual || s == StatusSkippedNoVersion
}

// Outcome describes what happened to one bundle.
type Outcome struct {
	Plugin  string `json:"plugin"`
	Status  Status `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Version string `json:"version,omitempty"`
	ZipPath string `json:"zip_path,omitempty"`
	Size    int64  `json:"size_bytes,omitempty"`
	SHA256  string `json:"sha256,omitempty"`
}

// Report summarizes a pass over one scope.
type Report struct {
	Scope      string            `json:"scope"`
	StagingDir string            `json:"staging_dir"`
	Collected  *collector.Result `json:"collected,omitempty"`
	Outcomes   []Outcome         `json:"outcomes"`
}

// Archived returns the outcomes that produced an archive.
func (r *Report) Archived() []Outcome {
	return r.filter(func(s Status) bool { return s == StatusArchived })
}

// Skipped returns the outcomes left in staging by a soft failure.
func (r *Report) Skipped() []Outcome {
	return r.filter(Status.Skipped)
}

func (r *Report) filter(keep func(Status) bool) []Outcome {
	if r == nil {
		return nil
	}
	var out []Outcome
	for _, o := range r.Outcomes {
		if keep(o.Status) {
			out = append(out, o)
		}
	}
	return out
}
