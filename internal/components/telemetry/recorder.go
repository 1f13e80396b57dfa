package telemetry

import (
	"sync"
)

type ReportKind int

const (
	ReportKindBroken ReportKind = iota
	ReportKindWarning
	ReportKindDebug
	ReportKindCount
)

type Report struct {
	Kind ReportKind
	// ID is the message for debug reports.
	ID     string
	Params []any
	Count  int64
}

// Recorder implements API by keeping every report in memory, it is meant
// for asserting on telemetry in tests.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: ReportKindBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: ReportKindWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: ReportKindDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Kind: ReportKindCount, ID: id, Count: count})
}

// Reports returns a copy of every report of the given kind, in the order
// they were made.
func (r *Recorder) Reports(kind ReportKind) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// IDs is Reports but only returns the ids.
func (r *Recorder) IDs(kind ReportKind) []string {
	var out []string
	for _, report := range r.Reports(kind) {
		out = append(out, report.ID)
	}
	return out
}
