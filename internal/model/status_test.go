package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to verified", StatusPending, StatusVerified, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to revision", StatusPending, StatusRevision, true},
		{"pending to approved skips verification", StatusPending, StatusApproved, false},
		{"verified to approved", StatusVerified, StatusApproved, true},
		{"verified to rejected", StatusVerified, StatusRejected, true},
		{"verified back to pending", StatusVerified, StatusPending, false},
		{"revision resubmits to pending", StatusRevision, StatusPending, true},
		{"revision straight to verified", StatusRevision, StatusVerified, false},
		{"approved is terminal", StatusApproved, StatusRejected, false},
		{"rejected is terminal", StatusRejected, StatusPending, false},
		{"self transition", StatusPending, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(Status("draft"), StatusPending))
	assert.Empty(t, AllowedTransitions(Status("draft")))
}

func TestCanTransitionReport(t *testing.T) {
	cases := []struct {
		name    string
		from    ReportStatus
		to      ReportStatus
		allowed bool
	}{
		{"not_reported to reported", ReportNotReported, ReportReported, true},
		{"not_reported straight to submitted", ReportNotReported, ReportSubmitted, false},
		{"reported to tax_verified", ReportReported, ReportTaxVerified, true},
		{"reported to rejected", ReportReported, ReportRejected, true},
		{"reported to revision", ReportReported, ReportRevision, true},
		{"tax_verified to submitted", ReportTaxVerified, ReportSubmitted, true},
		{"tax_verified to rejected", ReportTaxVerified, ReportRejected, true},
		{"rejected loops back to reported", ReportRejected, ReportReported, true},
		{"revision loops back to reported", ReportRevision, ReportReported, true},
		{"submitted is terminal", ReportSubmitted, ReportReported, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransitionReport(tc.from, tc.to))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusVerified, StatusApproved, StatusRejected, StatusRevision} {
		assert.True(t, ValidStatus(s), string(s))
	}
	assert.False(t, ValidStatus(Status("draft")))
	assert.False(t, ValidStatus(Status("")))
}

func TestValidReportStatus(t *testing.T) {
	for _, s := range []ReportStatus{ReportNotReported, ReportReported, ReportTaxVerified, ReportRejected, ReportRevision, ReportSubmitted} {
		assert.True(t, ValidReportStatus(s), string(s))
	}
	assert.False(t, ValidReportStatus(ReportStatus("pending")))
}
