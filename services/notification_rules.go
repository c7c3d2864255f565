package services

import (
	"franchise-backoffice-api/models"
)

// Classification of a checklist slot against a booking record.
type DocStatus int

const (
	StatusMissing DocStatus = iota
	StatusPending
	StatusApproved
)

// Status filters accepted by the notification feed operations.
const (
	FilterPending = "pending"
	FilterAll     = "all"
)

// Notification item kinds.
const (
	TypeDocumentMissing      = "document_missing"
	TypeDocumentPending      = "document_pending"
	TypeDocumentApproved     = "document_approved"
	TypeTokenPending         = "token_pending_approval"
	TypeTokenApproved        = "token_approved"
	TypeTokenProofMissing    = "token_proof_missing"
	TypeBalanceDue           = "balance_due"
	TypeBalanceCleared       = "balance_cleared"
	TypeSchedulePending      = "scheduled_payment_pending_approval"
	TypeScheduleApproved     = "scheduled_payment_approved"
	TypeScheduleProofMissing = "scheduled_payment_proof_missing"
	TypeAssignmentPending    = "assignment_pending"
	TypeAssignmentDone       = "assignment_done"
)

// Item severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// severityFor maps an item kind to the urgency cue rendered by clients.
// Clients key visual styling off these values, so the table is fixed.
func severityFor(itemType string) string {
	switch itemType {
	case TypeTokenPending, TypeSchedulePending:
		return SeverityCritical
	case TypeBalanceDue, TypeTokenProofMissing, TypeScheduleProofMissing,
		TypeDocumentMissing, TypeDocumentPending, TypeAssignmentPending:
		return SeverityWarning
	}
	return SeverityInfo
}

// DocumentRule is one entry of the legal checklist. A nil Approved accessor
// means the field has no approval workflow: its presence is sufficient.
type DocumentRule struct {
	Key      string
	Label    string
	Field    func(*models.BookingFormPersonalDetails) *string
	Approved func(*models.BookingFormPersonalDetails) bool
}

// AssignmentRule is one entry of the admin assignment checklist, referencing
// an office-details foreign key.
type AssignmentRule struct {
	Key      string
	Label    string
	Assigned func(*models.OfficeDetails) bool
}

// NotificationConfig carries the rule tables and flags driving the feeds.
// It is injected into the service so deployments can customize checklists
// and tests can run against small fixtures.
type NotificationConfig struct {
	LegalDocs        []DocumentRule
	AdminAssignments []AssignmentRule

	// When set, a missing payment proof document is itself a pending
	// condition, independently for token and scheduled payments.
	RequireTokenProof    bool
	RequireScheduleProof bool

	// SummaryWindow caps how many recent bookings a summary scans.
	SummaryWindow int
}

// DefaultNotificationConfig returns the production rule tables.
func DefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		LegalDocs: []DocumentRule{
			{
				Key:      "photo",
				Label:    "Applicant photograph",
				Field:    func(b *models.BookingFormPersonalDetails) *string { return b.PhotoURL },
				Approved: func(b *models.BookingFormPersonalDetails) bool { return b.PhotoApproved },
			},
			{
				Key:      "id_proof",
				Label:    "Identity proof",
				Field:    func(b *models.BookingFormPersonalDetails) *string { return b.IDProofURL },
				Approved: func(b *models.BookingFormPersonalDetails) bool { return b.IDProofApproved },
			},
			{
				Key:      "address_proof",
				Label:    "Address proof",
				Field:    func(b *models.BookingFormPersonalDetails) *string { return b.AddressProofURL },
				Approved: func(b *models.BookingFormPersonalDetails) bool { return b.AddressProofApproved },
			},
			{
				Key:      "agreement",
				Label:    "Franchise agreement",
				Field:    func(b *models.BookingFormPersonalDetails) *string { return b.AgreementURL },
				Approved: func(b *models.BookingFormPersonalDetails) bool { return b.AgreementApproved },
			},
			{
				Key:      "bank_cheque",
				Label:    "Cancelled bank cheque",
				Field:    func(b *models.BookingFormPersonalDetails) *string { return b.BankChequeURL },
				Approved: func(b *models.BookingFormPersonalDetails) bool { return b.BankChequeApproved },
			},
			{
				// Tax id has no approval workflow; presence is sufficient.
				Key:   "tax_id",
				Label: "Tax identification number",
				Field: func(b *models.BookingFormPersonalDetails) *string { return b.TaxID },
			},
		},
		AdminAssignments: []AssignmentRule{
			{
				Key:      "legal_officer",
				Label:    "Legal officer",
				Assigned: func(o *models.OfficeDetails) bool { return o.LegalOfficerID != nil },
			},
			{
				Key:      "finance_officer",
				Label:    "Finance officer",
				Assigned: func(o *models.OfficeDetails) bool { return o.FinanceOfficerID != nil },
			},
			{
				Key:      "sales_rep",
				Label:    "Sales representative",
				Assigned: func(o *models.OfficeDetails) bool { return o.SalesRepID != nil },
			},
			{
				Key:      "branch",
				Label:    "Branch",
				Assigned: func(o *models.OfficeDetails) bool { return o.BranchID != nil },
			},
		},
		RequireTokenProof:    true,
		RequireScheduleProof: true,
		SummaryWindow:        500,
	}
}

// classifyDocument is the single classification primitive shared by the item
// generator and the summary counters.
func classifyDocument(rule DocumentRule, rec *models.BookingFormPersonalDetails) DocStatus {
	present := false
	if v := rule.Field(rec); v != nil && *v != "" {
		present = true
	}

	if rule.Approved == nil {
		if present {
			return StatusApproved
		}
		return StatusPending
	}
	if !present {
		return StatusMissing
	}
	if rule.Approved(rec) {
		return StatusApproved
	}
	return StatusPending
}

func tokenProofMissing(cfg *NotificationConfig, pd *models.PaymentDetails) bool {
	return cfg.RequireTokenProof && (pd.TokenProofURL == nil || *pd.TokenProofURL == "")
}

func scheduleProofMissing(cfg *NotificationConfig, sp *models.ScheduledPayment) bool {
	return cfg.RequireScheduleProof && (sp.ProofURL == nil || *sp.ProofURL == "")
}
