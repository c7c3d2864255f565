package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"franchise-backoffice-api/models"
	"franchise-backoffice-api/utils"
)

// NotificationItem is a derived feed entry. Items are recomputed on every
// request and never persisted, so they carry no read state.
type NotificationItem struct {
	ID        string                 `json:"id"`
	Role      string                 `json:"role"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	EntityID  uint                   `json:"entity_id"`
	Severity  string                 `json:"severity"`
	CreatedAt time.Time              `json:"created_at"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
}

// NotificationSummary reports outstanding versus completed slot counts over
// the most recent bookings. Window is the scan cap, surfaced so clients can
// tell a windowed total from a true one.
type NotificationSummary struct {
	Pending int `json:"pending"`
	Added   int `json:"added"`
	Total   int `json:"total"`
	Window  int `json:"window"`
}

// NotificationList is one cursor page of a role feed.
type NotificationList struct {
	Items      []NotificationItem `json:"items"`
	HasMore    bool               `json:"has_more"`
	NextCursor uint               `json:"next_cursor"`
}

// NotificationService derives role-scoped approval and assignment feeds from
// the booking dataset.
type NotificationService struct {
	db  *gorm.DB
	cfg NotificationConfig
}

func NewNotificationService(db *gorm.DB, cfg NotificationConfig) *NotificationService {
	if cfg.SummaryWindow <= 0 {
		cfg.SummaryWindow = 500
	}
	return &NotificationService{db: db, cfg: cfg}
}

func validateRole(role string) error {
	if !models.ValidRole(role) {
		return validationErrorf("unknown role %q", role)
	}
	return nil
}

func validateStatus(status string) (string, error) {
	switch status {
	case "":
		return FilterPending, nil
	case FilterPending, FilterAll:
		return status, nil
	}
	return "", validationErrorf("status must be %q or %q, got %q", FilterPending, FilterAll, status)
}

// GenerateItems derives the feed entries one booking record contributes to a
// role. Under the pending filter only outstanding conditions are emitted;
// under "all" completed slots are included as info entries.
func (s *NotificationService) GenerateItems(rec *models.BookingFormPersonalDetails, role, status string) ([]NotificationItem, error) {
	if err := validateRole(role); err != nil {
		return nil, err
	}
	status, err := validateStatus(status)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleLegal:
		return s.legalItems(rec, status, role), nil
	case models.RoleFinance:
		return s.financeItems(rec, status, role), nil
	}

	// Admin unions the other two feeds filtered to outstanding conditions;
	// the status filter applies to the assignment checklist only.
	items := s.legalItems(rec, FilterPending, role)
	items = append(items, s.financeItems(rec, FilterPending, role)...)
	items = append(items, s.assignmentItems(rec, status, role)...)
	return items, nil
}

func applicantName(rec *models.BookingFormPersonalDetails) string {
	name := strings.TrimSpace(rec.FirstName + " " + rec.LastName)
	if name == "" {
		return "the applicant"
	}
	return name
}

func newItem(rec *models.BookingFormPersonalDetails, role, itemType, slot, title, message string) NotificationItem {
	return NotificationItem{
		ID:        fmt.Sprintf("%d:%s", rec.BookingID, slot),
		Role:      role,
		Type:      itemType,
		Title:     title,
		Message:   message,
		EntityID:  rec.BookingID,
		Severity:  severityFor(itemType),
		CreatedAt: rec.CreatedAt,
	}
}

func (s *NotificationService) legalItems(rec *models.BookingFormPersonalDetails, status, role string) []NotificationItem {
	name := applicantName(rec)
	items := make([]NotificationItem, 0, len(s.cfg.LegalDocs))

	for _, rule := range s.cfg.LegalDocs {
		cls := classifyDocument(rule, rec)
		if status == FilterPending && cls == StatusApproved {
			continue
		}

		var itemType, message string
		switch cls {
		case StatusMissing:
			itemType = TypeDocumentMissing
			message = fmt.Sprintf("%s is missing for %s.", rule.Label, name)
		case StatusPending:
			itemType = TypeDocumentPending
			message = fmt.Sprintf("%s for %s is awaiting approval.", rule.Label, name)
		default:
			itemType = TypeDocumentApproved
			message = fmt.Sprintf("%s for %s is approved.", rule.Label, name)
		}

		item := newItem(rec, role, itemType, "doc:"+rule.Key, rule.Label, message)
		item.Meta = map[string]interface{}{"field": rule.Key}
		items = append(items, item)
	}
	return items
}

func (s *NotificationService) financeItems(rec *models.BookingFormPersonalDetails, status, role string) []NotificationItem {
	pd := rec.PaymentDetails
	if pd == nil {
		return nil
	}

	name := applicantName(rec)
	locale := rec.Locale
	var items []NotificationItem

	// Token payment approval.
	tokenAmount := utils.FormatCurrency(pd.TokenAmount, locale)
	if !pd.TokenApproved {
		item := newItem(rec, role, TypeTokenPending, "token",
			"Token payment",
			fmt.Sprintf("Token payment of %s from %s is awaiting approval.", tokenAmount, name))
		item.Meta = map[string]interface{}{"amount": pd.TokenAmount}
		items = append(items, item)
	} else if status == FilterAll {
		item := newItem(rec, role, TypeTokenApproved, "token",
			"Token payment",
			fmt.Sprintf("Token payment of %s from %s is approved.", tokenAmount, name))
		item.Meta = map[string]interface{}{"amount": pd.TokenAmount}
		items = append(items, item)
	}
	if tokenProofMissing(&s.cfg, pd) {
		items = append(items, newItem(rec, role, TypeTokenProofMissing, "token:proof",
			"Token payment proof",
			fmt.Sprintf("Payment proof for the token payment of %s from %s is missing.", tokenAmount, name)))
	}

	// Outstanding balance.
	if pd.BalanceDue.IsPositive() {
		item := newItem(rec, role, TypeBalanceDue, "balance",
			"Outstanding balance",
			fmt.Sprintf("Outstanding balance of %s is due from %s.", utils.FormatCurrency(pd.BalanceDue, locale), name))
		item.Meta = map[string]interface{}{"amount": pd.BalanceDue}
		items = append(items, item)
	} else if status == FilterAll {
		items = append(items, newItem(rec, role, TypeBalanceCleared, "balance",
			"Outstanding balance",
			fmt.Sprintf("No outstanding balance for %s.", name)))
	}

	// Scheduled payments. Each item carries the payment's own due date so
	// the flattened feed sorts by it.
	for i := range pd.ScheduledPayments {
		sp := &pd.ScheduledPayments[i]
		slot := fmt.Sprintf("sched:%d", sp.ScheduledPaymentID)
		amount := utils.FormatCurrency(sp.Amount, locale)
		due := utils.FormatDate(sp.DueDate, locale)

		if !sp.Approved {
			item := newItem(rec, role, TypeSchedulePending, slot,
				"Scheduled payment",
				fmt.Sprintf("Scheduled payment of %s due %s from %s is awaiting approval.", amount, due, name))
			item.CreatedAt = sp.DueDate
			item.Meta = map[string]interface{}{"amount": sp.Amount, "due_date": sp.DueDate}
			items = append(items, item)
		} else if status == FilterAll {
			item := newItem(rec, role, TypeScheduleApproved, slot,
				"Scheduled payment",
				fmt.Sprintf("Scheduled payment of %s due %s from %s is approved.", amount, due, name))
			item.CreatedAt = sp.DueDate
			item.Meta = map[string]interface{}{"amount": sp.Amount, "due_date": sp.DueDate}
			items = append(items, item)
		}
		if scheduleProofMissing(&s.cfg, sp) {
			item := newItem(rec, role, TypeScheduleProofMissing, slot+":proof",
				"Scheduled payment proof",
				fmt.Sprintf("Payment proof for the scheduled payment of %s due %s is missing.", amount, due))
			item.CreatedAt = sp.DueDate
			items = append(items, item)
		}
	}

	return items
}

func (s *NotificationService) assignmentItems(rec *models.BookingFormPersonalDetails, status, role string) []NotificationItem {
	name := applicantName(rec)
	items := make([]NotificationItem, 0, len(s.cfg.AdminAssignments))

	for _, rule := range s.cfg.AdminAssignments {
		done := rec.OfficeDetails != nil && rule.Assigned(rec.OfficeDetails)
		if status == FilterPending && done {
			continue
		}

		var itemType, message string
		if done {
			itemType = TypeAssignmentDone
			message = fmt.Sprintf("%s is assigned for %s.", rule.Label, name)
		} else {
			itemType = TypeAssignmentPending
			message = fmt.Sprintf("%s has not been assigned for %s.", rule.Label, name)
		}

		item := newItem(rec, role, itemType, "assign:"+rule.Key, rule.Label, message)
		item.Meta = map[string]interface{}{"field": rule.Key}
		items = append(items, item)
	}
	return items
}

// GetSummary counts outstanding and completed slots over the most recent
// bookings, up to the configured window. The counters replay the same
// classification the item generator uses, but the per-role shapes differ:
// admin derives its added count from assignments alone while folding legal
// and finance pendings into pending and total.
func (s *NotificationService) GetSummary(role string) (*NotificationSummary, error) {
	if err := validateRole(role); err != nil {
		return nil, err
	}

	records, err := s.fetchBookings(s.cfg.SummaryWindow, 0)
	if err != nil {
		return nil, err
	}

	sum := &NotificationSummary{Window: s.cfg.SummaryWindow}
	for i := range records {
		s.countRecord(sum, &records[i], role)
	}
	return sum, nil
}

func (s *NotificationService) countRecord(sum *NotificationSummary, rec *models.BookingFormPersonalDetails, role string) {
	countSlot := func(done bool) {
		if done {
			sum.Added++
		} else {
			sum.Pending++
		}
		sum.Total++
	}
	countPendingCondition := func(fires bool) {
		if fires {
			sum.Pending++
			sum.Total++
		}
	}

	switch role {
	case models.RoleLegal:
		for _, rule := range s.cfg.LegalDocs {
			countSlot(classifyDocument(rule, rec) == StatusApproved)
		}

	case models.RoleFinance:
		pd := rec.PaymentDetails
		if pd == nil {
			return
		}
		countSlot(pd.TokenApproved)
		countPendingCondition(tokenProofMissing(&s.cfg, pd))
		countSlot(!pd.BalanceDue.IsPositive())
		for i := range pd.ScheduledPayments {
			sp := &pd.ScheduledPayments[i]
			countSlot(sp.Approved)
			countPendingCondition(scheduleProofMissing(&s.cfg, sp))
		}

	case models.RoleAdmin:
		for _, rule := range s.cfg.AdminAssignments {
			countSlot(rec.OfficeDetails != nil && rule.Assigned(rec.OfficeDetails))
		}
		for _, rule := range s.cfg.LegalDocs {
			countPendingCondition(classifyDocument(rule, rec) != StatusApproved)
		}
		if pd := rec.PaymentDetails; pd != nil {
			countPendingCondition(!pd.TokenApproved)
			countPendingCondition(tokenProofMissing(&s.cfg, pd))
			countPendingCondition(pd.BalanceDue.IsPositive())
			for i := range pd.ScheduledPayments {
				sp := &pd.ScheduledPayments[i]
				countPendingCondition(!sp.Approved)
				countPendingCondition(scheduleProofMissing(&s.cfg, sp))
			}
		}
	}
}

// GetList returns one page of a role feed. Records page by createdAt
// descending with a cursor that seeks past the last-seen booking id; the
// flattened items are then re-sorted by their own dates, which can differ
// from the parent record's (scheduled payments use their due date).
func (s *NotificationService) GetList(role, status string, limit int, cursor uint) (*NotificationList, error) {
	if err := validateRole(role); err != nil {
		return nil, err
	}
	status, err := validateStatus(status)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		return nil, validationErrorf("limit must be at most 100, got %d", limit)
	}

	records, err := s.fetchBookings(limit+1, cursor)
	if err != nil {
		return nil, err
	}

	hasMore := len(records) > limit
	page := records
	if hasMore {
		page = records[:limit]
	}

	items := make([]NotificationItem, 0, len(page))
	for i := range page {
		generated, err := s.GenerateItems(&page[i], role, status)
		if err != nil {
			return nil, err
		}
		items = append(items, generated...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	var nextCursor uint
	if len(page) > 0 {
		nextCursor = page[len(page)-1].BookingID
	}

	return &NotificationList{
		Items:      items,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}, nil
}

// fetchBookings loads booking records newest first with their payment,
// scheduled-payment and office rows stitched in. Children are fetched with
// IN batches rather than per-row queries.
func (s *NotificationService) fetchBookings(limit int, cursor uint) ([]models.BookingFormPersonalDetails, error) {
	q := s.db.Order("created_at DESC, booking_id DESC").Limit(limit)

	if cursor != 0 {
		var cur struct {
			CreatedAt time.Time
		}
		err := s.db.Model(&models.BookingFormPersonalDetails{}).
			Select("created_at").
			Where("booking_id = ?", cursor).
			Take(&cur).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationErrorf("unknown cursor %d", cursor)
			}
			return nil, err
		}
		q = q.Where("created_at < ? OR (created_at = ? AND booking_id < ?)",
			cur.CreatedAt, cur.CreatedAt, cursor)
	}

	var records []models.BookingFormPersonalDetails
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	ids := make([]uint, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].BookingID)
	}

	var paymentRows []models.PaymentDetails
	if err := s.db.Where("booking_id IN ?", ids).Find(&paymentRows).Error; err != nil {
		return nil, err
	}

	paymentIDs := make([]uint, 0, len(paymentRows))
	paymentByBooking := make(map[uint]*models.PaymentDetails, len(paymentRows))
	for i := range paymentRows {
		paymentIDs = append(paymentIDs, paymentRows[i].PaymentDetailsID)
		paymentByBooking[paymentRows[i].BookingID] = &paymentRows[i]
	}

	if len(paymentIDs) > 0 {
		var scheduled []models.ScheduledPayment
		if err := s.db.Where("payment_details_id IN ?", paymentIDs).
			Order("due_date ASC").
			Find(&scheduled).Error; err != nil {
			return nil, err
		}
		byPayment := make(map[uint][]models.ScheduledPayment)
		for _, sp := range scheduled {
			byPayment[sp.PaymentDetailsID] = append(byPayment[sp.PaymentDetailsID], sp)
		}
		for i := range paymentRows {
			paymentRows[i].ScheduledPayments = byPayment[paymentRows[i].PaymentDetailsID]
		}
	}

	var officeRows []models.OfficeDetails
	if err := s.db.Where("booking_id IN ?", ids).Find(&officeRows).Error; err != nil {
		return nil, err
	}
	officeByBooking := make(map[uint]*models.OfficeDetails, len(officeRows))
	for i := range officeRows {
		officeByBooking[officeRows[i].BookingID] = &officeRows[i]
	}

	for i := range records {
		records[i].PaymentDetails = paymentByBooking[records[i].BookingID]
		records[i].OfficeDetails = officeByBooking[records[i].BookingID]
	}
	return records, nil
}
