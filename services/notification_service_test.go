package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"franchise-backoffice-api/models"
)

func strp(s string) *string { return &s }
func uintp(v uint) *uint    { return &v }

// bookingFixture builds a record with a bit of everything outstanding:
// three legal documents pending or missing, an unapproved token payment
// with no proof, a balance due, one settled and one pending scheduled
// payment, and a single office assignment made.
func bookingFixture() *models.BookingFormPersonalDetails {
	return &models.BookingFormPersonalDetails{
		BookingID: 11,
		FirstName: "Asha",
		LastName:  "Verma",
		Locale:    "en-IN",
		CreatedAt: time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC),

		PhotoURL:          strp("https://files.example/photo.jpg"),
		PhotoApproved:     true,
		IDProofURL:        strp("https://files.example/id.pdf"),
		IDProofApproved:   false,
		AddressProofURL:   nil,
		AgreementURL:      strp("https://files.example/agreement.pdf"),
		AgreementApproved: true,
		BankChequeURL:     nil,
		TaxID:             strp("ABCDE1234F"),

		PaymentDetails: &models.PaymentDetails{
			PaymentDetailsID: 21,
			BookingID:        11,
			TokenAmount:      decimal.RequireFromString("50000"),
			TokenApproved:    false,
			TokenProofURL:    nil,
			BalanceDue:       decimal.RequireFromString("450000"),
			ScheduledPayments: []models.ScheduledPayment{
				{
					ScheduledPaymentID: 31,
					PaymentDetailsID:   21,
					Amount:             decimal.RequireFromString("100000"),
					DueDate:            time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
					Approved:           true,
					ProofURL:           strp("https://files.example/sp1.pdf"),
				},
				{
					ScheduledPaymentID: 32,
					PaymentDetailsID:   21,
					Amount:             decimal.RequireFromString("150000"),
					DueDate:            time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
					Approved:           false,
					ProofURL:           nil,
				},
			},
		},
		OfficeDetails: &models.OfficeDetails{
			OfficeDetailsID: 41,
			BookingID:       11,
			LegalOfficerID:  uintp(3),
		},
	}
}

func newTestNotificationService() *NotificationService {
	return NewNotificationService(nil, DefaultNotificationConfig())
}

func TestClassifyDocument(t *testing.T) {
	withApproval := DocumentRule{
		Key:      "doc",
		Field:    func(b *models.BookingFormPersonalDetails) *string { return b.IDProofURL },
		Approved: func(b *models.BookingFormPersonalDetails) bool { return b.IDProofApproved },
	}
	exempt := DocumentRule{
		Key:   "tax_id",
		Field: func(b *models.BookingFormPersonalDetails) *string { return b.TaxID },
	}

	cases := []struct {
		name string
		rule DocumentRule
		rec  models.BookingFormPersonalDetails
		want DocStatus
	}{
		{"absent is missing", withApproval, models.BookingFormPersonalDetails{}, StatusMissing},
		{"empty string is missing", withApproval, models.BookingFormPersonalDetails{IDProofURL: strp("")}, StatusMissing},
		{"present unapproved is pending", withApproval, models.BookingFormPersonalDetails{IDProofURL: strp("u")}, StatusPending},
		{"present approved", withApproval, models.BookingFormPersonalDetails{IDProofURL: strp("u"), IDProofApproved: true}, StatusApproved},
		{"exempt absent is pending", exempt, models.BookingFormPersonalDetails{}, StatusPending},
		{"exempt present is approved", exempt, models.BookingFormPersonalDetails{TaxID: strp("X")}, StatusApproved},
	}
	for _, tc := range cases {
		if got := classifyDocument(tc.rule, &tc.rec); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestLegalItemsCardinality(t *testing.T) {
	svc := newTestNotificationService()
	rec := bookingFixture()

	all, err := svc.GenerateItems(rec, models.RoleLegal, FilterAll)
	if err != nil {
		t.Fatalf("GenerateItems(all) returned error: %v", err)
	}
	if len(all) != len(svc.cfg.LegalDocs) {
		t.Fatalf("expected %d items under all, got %d", len(svc.cfg.LegalDocs), len(all))
	}

	pending, err := svc.GenerateItems(rec, models.RoleLegal, FilterPending)
	if err != nil {
		t.Fatalf("GenerateItems(pending) returned error: %v", err)
	}
	// id_proof pending, address_proof missing, bank_cheque missing.
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending items, got %d", len(pending))
	}
	for _, item := range pending {
		if item.Type != TypeDocumentMissing && item.Type != TypeDocumentPending {
			t.Fatalf("pending feed contains %s", item.Type)
		}
		if item.Severity != SeverityWarning {
			t.Fatalf("document item severity = %s, want warning", item.Severity)
		}
		if item.EntityID != rec.BookingID {
			t.Fatalf("item entity id = %d, want %d", item.EntityID, rec.BookingID)
		}
	}
}

func TestFinanceItems(t *testing.T) {
	svc := newTestNotificationService()
	rec := bookingFixture()

	pending, err := svc.GenerateItems(rec, models.RoleFinance, FilterPending)
	if err != nil {
		t.Fatalf("GenerateItems returned error: %v", err)
	}

	types := map[string]int{}
	for _, item := range pending {
		types[item.Type]++
	}
	want := map[string]int{
		TypeTokenPending:         1,
		TypeTokenProofMissing:    1,
		TypeBalanceDue:           1,
		TypeSchedulePending:      1,
		TypeScheduleProofMissing: 1,
	}
	for k, n := range want {
		if types[k] != n {
			t.Fatalf("expected %d %s items, got %d (all: %v)", n, k, types[k], types)
		}
	}
	if len(pending) != 5 {
		t.Fatalf("expected 5 pending finance items, got %d", len(pending))
	}

	for _, item := range pending {
		switch item.Type {
		case TypeTokenPending:
			if item.Severity != SeverityCritical {
				t.Fatalf("token pending severity = %s", item.Severity)
			}
			// en-IN grouping of 50000.00.
			if !strings.Contains(item.Message, "₹50,000.00") {
				t.Fatalf("token message missing locale-formatted amount: %q", item.Message)
			}
		case TypeBalanceDue:
			if item.Severity != SeverityWarning {
				t.Fatalf("balance due severity = %s", item.Severity)
			}
			if !strings.Contains(item.Message, "₹4,50,000.00") {
				t.Fatalf("balance message missing locale-formatted amount: %q", item.Message)
			}
		case TypeSchedulePending:
			if !item.CreatedAt.Equal(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("scheduled item should use its own due date, got %v", item.CreatedAt)
			}
		}
	}

	all, err := svc.GenerateItems(rec, models.RoleFinance, FilterAll)
	if err != nil {
		t.Fatalf("GenerateItems(all) returned error: %v", err)
	}
	// The settled scheduled payment joins the feed under "all".
	if len(all) != 6 {
		t.Fatalf("expected 6 finance items under all, got %d", len(all))
	}
}

func TestFinanceItemsNoPaymentRecord(t *testing.T) {
	svc := newTestNotificationService()
	rec := bookingFixture()
	rec.PaymentDetails = nil

	items, err := svc.GenerateItems(rec, models.RoleFinance, FilterAll)
	if err != nil {
		t.Fatalf("GenerateItems returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no finance items without payment details, got %d", len(items))
	}
}

func TestAdminItemsUnion(t *testing.T) {
	svc := newTestNotificationService()
	rec := bookingFixture()

	pending, err := svc.GenerateItems(rec, models.RoleAdmin, FilterPending)
	if err != nil {
		t.Fatalf("GenerateItems returned error: %v", err)
	}
	// 3 legal pending + 5 finance pending + 3 unmade assignments.
	if len(pending) != 11 {
		t.Fatalf("expected 11 admin items under pending, got %d", len(pending))
	}

	all, err := svc.GenerateItems(rec, models.RoleAdmin, FilterAll)
	if err != nil {
		t.Fatalf("GenerateItems(all) returned error: %v", err)
	}
	// The status filter only widens the assignment checklist: the one made
	// assignment appears, legal/finance stay pending-only.
	if len(all) != 12 {
		t.Fatalf("expected 12 admin items under all, got %d", len(all))
	}

	var doneSeen bool
	for _, item := range all {
		if item.Role != models.RoleAdmin {
			t.Fatalf("admin feed contains item with role %s", item.Role)
		}
		switch item.Type {
		case TypeAssignmentDone:
			doneSeen = true
		case TypeDocumentApproved, TypeTokenApproved, TypeScheduleApproved, TypeBalanceCleared:
			t.Fatalf("admin feed leaked completed sub-item %s", item.Type)
		}
	}
	if !doneSeen {
		t.Fatalf("expected the made assignment under all")
	}
}

func TestSeverityTable(t *testing.T) {
	cases := map[string]string{
		TypeTokenPending:         SeverityCritical,
		TypeSchedulePending:      SeverityCritical,
		TypeBalanceDue:           SeverityWarning,
		TypeTokenProofMissing:    SeverityWarning,
		TypeScheduleProofMissing: SeverityWarning,
		TypeDocumentMissing:      SeverityWarning,
		TypeDocumentPending:      SeverityWarning,
		TypeAssignmentPending:    SeverityWarning,
		TypeDocumentApproved:     SeverityInfo,
		TypeTokenApproved:        SeverityInfo,
		TypeBalanceCleared:       SeverityInfo,
		TypeScheduleApproved:     SeverityInfo,
		TypeAssignmentDone:       SeverityInfo,
	}
	for itemType, want := range cases {
		if got := severityFor(itemType); got != want {
			t.Fatalf("severityFor(%s) = %s, want %s", itemType, got, want)
		}
	}
}

func TestSummaryCountersPerRole(t *testing.T) {
	svc := newTestNotificationService()
	rec := bookingFixture()

	cases := []struct {
		role                  string
		pending, added, total int
	}{
		// 6 document slots: 3 outstanding, 3 done.
		{models.RoleLegal, 3, 3, 6},
		// Token, token proof, balance, pending schedule and its proof
		// outstanding; the settled schedule counts as added.
		{models.RoleFinance, 5, 1, 6},
		// 4 assignment slots (1 made) plus 3 legal and 5 finance pendings
		// folded in; added comes from assignments alone.
		{models.RoleAdmin, 11, 1, 12},
	}

	for _, tc := range cases {
		sum := &NotificationSummary{}
		svc.countRecord(sum, rec, tc.role)
		if sum.Pending != tc.pending || sum.Added != tc.added || sum.Total != tc.total {
			t.Fatalf("%s counters = {pending:%d added:%d total:%d}, want {%d %d %d}",
				tc.role, sum.Pending, sum.Added, sum.Total, tc.pending, tc.added, tc.total)
		}
	}
}

func TestGetSummaryInvalidRoleSkipsStore(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewNotificationService(db, DefaultNotificationConfig())
	if _, err := svc.GetSummary("superuser"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.GetList("superuser", FilterPending, 10, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.GetList(models.RoleLegal, "done", 10, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for bad status, got %v", err)
	}
	if _, err := svc.GetList(models.RoleLegal, FilterPending, 101, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for oversized limit, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("store was accessed before validation: %v", err)
	}
}

var (
	bookingListPattern   = regexp.MustCompile(`SELECT \* FROM .booking_form_personal_details. ORDER BY created_at DESC`)
	bookingCursorPattern = regexp.MustCompile(`SELECT .?created_at.? FROM .booking_form_personal_details. WHERE booking_id = \?`)
	paymentListPattern   = regexp.MustCompile(`SELECT \* FROM .payment_details. WHERE booking_id IN`)
	scheduleListPattern  = regexp.MustCompile(`SELECT \* FROM .scheduled_payments. WHERE payment_details_id`)
	officeListPattern    = regexp.MustCompile(`SELECT \* FROM .office_details. WHERE booking_id IN`)
)

func TestGetListSortsItemsAcrossRecords(t *testing.T) {
	older := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2025, time.June, 5, 9, 0, 0, 0, time.UTC)
	dueLater := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: bookingListPattern,
			columns: []string{"booking_id", "first_name", "last_name", "locale", "created_at"},
			rows: [][]driver.Value{
				{int64(2), "Rohan", "Mehta", "en-IN", newer},
				{int64(1), "Asha", "Verma", "en-IN", older},
			},
		},
		{
			kind:    kindQuery,
			pattern: paymentListPattern,
			columns: []string{"payment_details_id", "booking_id", "token_amount", "token_is_approved", "token_proof_url", "balance_due"},
			rows: [][]driver.Value{
				{int64(10), int64(1), "50000.00", int64(0), "https://files.example/token.pdf", "0.00"},
			},
		},
		{
			kind:    kindQuery,
			pattern: scheduleListPattern,
			columns: []string{"scheduled_payment_id", "payment_details_id", "amount", "due_date", "is_approved", "proof_url"},
			rows: [][]driver.Value{
				{int64(100), int64(10), "25000.00", dueLater, int64(0), "https://files.example/sp.pdf"},
			},
		},
		{
			kind:    kindQuery,
			pattern: officeListPattern,
			columns: []string{"office_details_id", "booking_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db, DefaultNotificationConfig())
	list, err := svc.GetList(models.RoleFinance, FilterPending, 20, 0)
	if err != nil {
		t.Fatalf("GetList returned error: %v", err)
	}

	if list.HasMore {
		t.Fatalf("expected hasMore=false for 2 records under limit 20")
	}
	if list.NextCursor != 1 {
		t.Fatalf("next cursor = %d, want last record id 1", list.NextCursor)
	}

	// Booking 1 contributes a token item dated by its record and a
	// scheduled item dated by the later due date; the flattened feed must
	// lead with the scheduled item.
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}
	if list.Items[0].Type != TypeSchedulePending {
		t.Fatalf("first item = %s, want %s", list.Items[0].Type, TypeSchedulePending)
	}
	if list.Items[1].Type != TypeTokenPending {
		t.Fatalf("second item = %s, want %s", list.Items[1].Type, TypeTokenPending)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestGetListHasMoreAndCursorSeek(t *testing.T) {
	base := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	// limit 1 fetches two rows; the second signals another page.
	firstPage := []*queryStep{
		{
			kind:    kindQuery,
			pattern: bookingListPattern,
			columns: []string{"booking_id", "first_name", "last_name", "locale", "created_at"},
			rows: [][]driver.Value{
				{int64(3), "A", "A", "en-US", base.Add(2 * time.Hour)},
				{int64(2), "B", "B", "en-US", base.Add(1 * time.Hour)},
			},
		},
		{
			kind:    kindQuery,
			pattern: paymentListPattern,
			columns: []string{"payment_details_id", "booking_id"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindQuery,
			pattern: officeListPattern,
			columns: []string{"office_details_id", "booking_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, firstPage)
	defer cleanup()

	svc := NewNotificationService(db, DefaultNotificationConfig())
	list, err := svc.GetList(models.RoleLegal, FilterAll, 1, 0)
	if err != nil {
		t.Fatalf("GetList returned error: %v", err)
	}
	if !list.HasMore {
		t.Fatalf("expected hasMore=true")
	}
	if list.NextCursor != 3 {
		t.Fatalf("next cursor = %d, want 3 (last record of the page)", list.NextCursor)
	}
	// One record paged, full legal checklist under "all".
	if len(list.Items) != len(DefaultNotificationConfig().LegalDocs) {
		t.Fatalf("expected %d items, got %d", len(DefaultNotificationConfig().LegalDocs), len(list.Items))
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestGetListUnknownCursor(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: bookingCursorPattern,
			columns: []string{"created_at"},
			rows:    [][]driver.Value{},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewNotificationService(db, DefaultNotificationConfig())
	if _, err := svc.GetList(models.RoleLegal, FilterPending, 10, 999); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown cursor, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestGenerateItemsInvalidRole(t *testing.T) {
	svc := newTestNotificationService()
	if _, err := svc.GenerateItems(bookingFixture(), "superuser", FilterPending); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
