package domain

import (
	"sort"
	"time"
)

// TypeStatus is the outcome of one data type within a run.
type TypeStatus string

// Possible type outcomes.
const (
	TypeStatusSkipped   TypeStatus = "skipped"
	TypeStatusSucceeded TypeStatus = "succeeded"
	TypeStatusPartial   TypeStatus = "partial"
	TypeStatusFailed    TypeStatus = "failed"
)

// TypeReport accumulates the counters of a single data type block.
// Each block owns its report; the coordinator merges them into a RunReport.
type TypeReport struct {
	DataType DataType
	Enabled  bool

	// Fetched counts records yielded by the fetcher, including undecodable ones.
	Fetched int
	// Filtered counts records dropped by the since filter.
	Filtered int
	// Mapped counts documents produced by the mapper.
	Mapped int
	// Duplicates counts documents whose ID was already uploaded in this run.
	Duplicates int
	// Uploaded counts documents accepted by the destination.
	Uploaded int
	// Failed counts records or documents that did not reach the destination.
	Failed int
	// Degraded counts records emitted with a failed nested fetch.
	Degraded int

	Failures []DocumentFailure

	// Err is the error that aborted the block, if any.
	Err error

	StartedAt time.Time
	EndedAt   time.Time
}

// NewTypeReport creates a report for an enabled data type.
func NewTypeReport(dt DataType) *TypeReport {
	return &TypeReport{DataType: dt, Enabled: true}
}

// SkippedReport creates a report for a disabled data type.
func SkippedReport(dt DataType) *TypeReport {
	return &TypeReport{DataType: dt}
}

// RecordFailure adds a failure and increments the failed counter.
func (r *TypeReport) RecordFailure(f DocumentFailure) {
	r.Failed++
	r.Failures = append(r.Failures, f)
}

// Status derives the outcome from the counters.
func (r *TypeReport) Status() TypeStatus {
	switch {
	case !r.Enabled:
		return TypeStatusSkipped
	case (r.Err != nil || r.Failed > 0) && r.Uploaded == 0:
		return TypeStatusFailed
	case r.Err != nil || r.Failed > 0:
		return TypeStatusPartial
	default:
		return TypeStatusSucceeded
	}
}

// ErrorSample groups example messages of one error kind.
type ErrorSample struct {
	Kind     ErrorKind
	Count    int
	Messages []string
}

// Samples returns up to limit messages per error kind, ordered by kind.
// The block error, if any, is included.
func (r *TypeReport) Samples(limit int) []ErrorSample {
	byKind := make(map[ErrorKind]*ErrorSample)
	add := func(kind ErrorKind, msg string) {
		s, ok := byKind[kind]
		if !ok {
			s = &ErrorSample{Kind: kind}
			byKind[kind] = s
		}
		s.Count++
		if len(s.Messages) < limit {
			s.Messages = append(s.Messages, msg)
		}
	}

	if r.Err != nil {
		add(ClassifyError(r.Err), r.Err.Error())
	}
	for _, f := range r.Failures {
		msg := f.Reason
		if f.ID != "" {
			msg = f.ID + ": " + f.Reason
		}
		add(f.Kind, msg)
	}

	samples := make([]ErrorSample, 0, len(byKind))
	for _, s := range byKind {
		samples = append(samples, *s)
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Kind < samples[j].Kind
	})
	return samples
}

// RunReport is the merged outcome of a sync run.
type RunReport struct {
	RunID     string
	StartedAt time.Time
	EndedAt   time.Time
	Types     []*TypeReport
}

// NewRunReport creates an empty report.
func NewRunReport(runID string, startedAt time.Time) *RunReport {
	return &RunReport{RunID: runID, StartedAt: startedAt}
}

// Add merges a type report into the run.
func (r *RunReport) Add(tr *TypeReport) {
	r.Types = append(r.Types, tr)
}

// Get returns the report for a data type, or nil.
func (r *RunReport) Get(dt DataType) *TypeReport {
	for _, tr := range r.Types {
		if tr.DataType == dt {
			return tr
		}
	}
	return nil
}

// Failed reports whether any enabled type failed entirely.
func (r *RunReport) Failed() bool {
	for _, tr := range r.Types {
		if tr.Status() == TypeStatusFailed {
			return true
		}
	}
	return false
}

// TotalUploaded sums uploaded documents across types.
func (r *RunReport) TotalUploaded() int {
	total := 0
	for _, tr := range r.Types {
		total += tr.Uploaded
	}
	return total
}

// TotalFailed sums failures across types.
func (r *RunReport) TotalFailed() int {
	total := 0
	for _, tr := range r.Types {
		total += tr.Failed
	}
	return total
}
