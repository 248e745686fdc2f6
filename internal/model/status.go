package model

// Status is the workflow state of a PanjarRequest or PanjarItem
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusRevision Status = "revision"
)

// ReportStatus is the parallel realization-reporting state of a PanjarRequest
// or PanjarRealizationItem
type ReportStatus string

const (
	ReportNotReported ReportStatus = "not_reported"
	ReportReported    ReportStatus = "reported"
	ReportTaxVerified ReportStatus = "tax_verified"
	ReportRejected    ReportStatus = "rejected"
	ReportRevision    ReportStatus = "revision"
	ReportSubmitted   ReportStatus = "submitted"
)

// statusTransitions is the allowed transition table for the panjar workflow.
// approved and rejected are terminal; a revision re-enters pending on
// resubmission.
var statusTransitions = map[Status][]Status{
	StatusPending:  {StatusVerified, StatusRejected, StatusRevision},
	StatusVerified: {StatusApproved, StatusRejected, StatusRevision},
	StatusRevision: {StatusPending},
	StatusApproved: {},
	StatusRejected: {},
}

// reportTransitions is the allowed transition table for the post-approval
// realization-reporting workflow. submitted is terminal; rejected and
// revision loop back to reported.
var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportNotReported: {ReportReported},
	ReportReported:    {ReportTaxVerified, ReportRejected, ReportRevision},
	ReportTaxVerified: {ReportSubmitted, ReportRejected},
	ReportRejected:    {ReportReported},
	ReportRevision:    {ReportReported},
	ReportSubmitted:   {},
}

// AllowedTransitions returns the set of states reachable from current.
// An unknown state has no successors.
func AllowedTransitions(current Status) []Status {
	return statusTransitions[current]
}

// CanTransition reports whether moving from one workflow state to another
// is legal.
func CanTransition(from, to Status) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedReportTransitions returns the report states reachable from current.
func AllowedReportTransitions(current ReportStatus) []ReportStatus {
	return reportTransitions[current]
}

// CanTransitionReport reports whether a report-status transition is legal.
func CanTransitionReport(from, to ReportStatus) bool {
	for _, s := range reportTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the five workflow states.
func ValidStatus(s Status) bool {
	_, ok := statusTransitions[s]
	return ok
}

// ValidReportStatus reports whether s is one of the six reporting states.
func ValidReportStatus(s ReportStatus) bool {
	_, ok := reportTransitions[s]
	return ok
}
