package telemetry

import "strings"

type ReportKind int

const (
	KindBroken ReportKind = iota
	KindWarning
	KindDebug
	KindCount
)

type Report struct {
	Kind   ReportKind
	ID     string
	Params []any
}

// Recorder is an API that keeps every report in memory, tests use it
// to assert that a component reported (or didn't report) something.
type Recorder struct {
	Reports []Report
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.Reports = append(r.Reports, Report{Kind: KindBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.Reports = append(r.Reports, Report{Kind: KindWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.Reports = append(r.Reports, Report{Kind: KindDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.Reports = append(r.Reports, Report{Kind: KindCount, ID: id, Params: []any{count}})
}

// Count returns the number of reports of the given kind whose id ends with suffix.
func (r *Recorder) Count(kind ReportKind, suffix string) int {
	n := 0
	for _, report := range r.Reports {
		if report.Kind == kind && strings.HasSuffix(report.ID, suffix) {
			n++
		}
	}
	return n
}
