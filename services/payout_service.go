package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"franchise-backoffice-api/models"
)

var (
	hundred     = decimal.NewFromInt(100)
	quarterDays = decimal.NewFromInt(90)
	yearDays    = decimal.NewFromInt(365)
)

// PayoutService computes and persists investor payouts.
type PayoutService struct {
	db *gorm.DB
}

func NewPayoutService(db *gorm.DB) *PayoutService {
	return &PayoutService{db: db}
}

// ComputeMonthlyPayout returns the amount owed for an investment in the
// given month. Turnover-based when the month's sales meet the opportunity
// threshold, guaranteed-return otherwise, then prorated by payout frequency
// against asOf. Pure read: nothing is persisted. No rounding is applied;
// display layers round.
func (s *PayoutService) ComputeMonthlyPayout(investmentID uint, month, year int, asOf time.Time) (decimal.Decimal, error) {
	if month < 1 || month > 12 {
		return decimal.Zero, validationErrorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1000 || year > 9999 {
		return decimal.Zero, validationErrorf("year must be a 4-digit year, got %d", year)
	}

	var inv models.Investment
	if err := s.db.Preload("Opportunity").
		First(&inv, "investment_id = ?", investmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, notFoundErrorf("investment %d not found", investmentID)
		}
		return decimal.Zero, err
	}
	if inv.Opportunity == nil {
		return decimal.Zero, notFoundErrorf("opportunity %d not found for investment %d", inv.OpportunityID, investmentID)
	}

	totalSales, err := s.sumSales(inv.OpportunityID, month, year)
	if err != nil {
		return decimal.Zero, err
	}

	amount := selectPayoutRule(&inv, totalSales)
	return prorate(amount, inv.PayoutMode, month, asOf), nil
}

// sumSales totals the opportunity's sales within the target month.
func (s *PayoutService) sumSales(opportunityID uint, month, year int) (decimal.Decimal, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := start.AddDate(0, 1, 0)

	var row struct {
		Total decimal.Decimal
	}
	if err := s.db.Model(&models.Sale{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("opportunity_id = ? AND date >= ? AND date < ?", opportunityID, start, next).
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// selectPayoutRule picks the pre-proration amount. The turnover rule wins
// whenever its threshold is met; a missing threshold counts as zero, so it
// is always met.
func selectPayoutRule(inv *models.Investment, totalSales decimal.Decimal) decimal.Decimal {
	opp := inv.Opportunity

	threshold := decimal.Zero
	if opp.TurnOverAmount != nil {
		threshold = *opp.TurnOverAmount
	}

	if totalSales.GreaterThanOrEqual(threshold) {
		pct := decimal.Zero
		if opp.TurnOverPercentage != nil {
			pct = *opp.TurnOverPercentage
		}
		return totalSales.Mul(pct).Div(hundred)
	}

	pct := decimal.Zero
	if opp.ROIPercent != nil {
		pct = *opp.ROIPercent
	}
	return inv.Amount.Mul(pct).Div(hundred)
}

// prorate scales the period amount to the portion remaining as of the given
// date. Quarterly uses the legacy 30-day-month/90-day-quarter approximation.
func prorate(amount decimal.Decimal, mode string, month int, asOf time.Time) decimal.Decimal {
	switch mode {
	case models.PayoutModeMonthly:
		days := daysInMonth(asOf)
		remaining := days - asOf.Day()
		return amount.Div(decimal.NewFromInt(int64(days))).Mul(decimal.NewFromInt(int64(remaining)))
	case models.PayoutModeQuarterly:
		left := 90 - ((asOf.Day() + (month-1)*30) % 90)
		return amount.Div(quarterDays).Mul(decimal.NewFromInt(int64(left)))
	case models.PayoutModeYearly:
		return amount.Div(yearDays).Mul(decimal.NewFromInt(int64(yearlyProrationDays(asOf))))
	}
	return amount
}

// yearlyProrationDays reproduces the legacy yearly remainder, which reads
// the weekday index instead of the day of year and so always lands in
// [358,365].
// TODO: confirm with the finance team whether this should be 365 - day-of-year.
func yearlyProrationDays(asOf time.Time) int {
	return 365 - int(asOf.Weekday())
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// lastDayOfMonth returns the due date used for a period's payout row.
func lastDayOfMonth(month, year int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// CreatePayout computes the period amount and inserts one payout row due on
// the last day of the target month. A payout that already exists for the
// same investment and due date is rejected; the unique index on
// (investment_id, due_date) backstops concurrent creations.
func (s *PayoutService) CreatePayout(investmentID uint, month, year int, asOf time.Time, notes *string) (*models.Payout, error) {
	amount, err := s.ComputeMonthlyPayout(investmentID, month, year, asOf)
	if err != nil {
		return nil, err
	}

	dueDate := lastDayOfMonth(month, year)

	var existing int64
	if err := s.db.Model(&models.Payout{}).
		Where("investment_id = ? AND due_date = ?", investmentID, dueDate).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrDuplicatePayout
	}

	payout := models.Payout{
		InvestmentID: investmentID,
		DueDate:      dueDate,
		AmountDue:    amount,
		AmountPaid:   decimal.Zero,
		ReceiptRef:   uuid.NewString(),
		Notes:        notes,
		CreateAt:     time.Now(),
	}
	if err := s.db.Create(&payout).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

// ListPayouts returns an investment's payout rows, newest due date first.
func (s *PayoutService) ListPayouts(investmentID uint) ([]models.Payout, error) {
	var count int64
	if err := s.db.Model(&models.Investment{}).
		Where("investment_id = ?", investmentID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, notFoundErrorf("investment %d not found", investmentID)
	}

	var payouts []models.Payout
	if err := s.db.Where("investment_id = ?", investmentID).
		Order("due_date DESC").
		Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

// MarkPayoutPaid settles a payout row.
func (s *PayoutService) MarkPayoutPaid(payoutID uint, amountPaid decimal.Decimal, paymentMode string, paidDate time.Time) (*models.Payout, error) {
	if amountPaid.LessThanOrEqual(decimal.Zero) {
		return nil, validationErrorf("amount_paid must be positive")
	}
	if paymentMode == "" {
		return nil, validationErrorf("payment_mode is required")
	}

	var payout models.Payout
	if err := s.db.First(&payout, "payout_id = ?", payoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("payout %d not found", payoutID)
		}
		return nil, err
	}

	if err := s.db.Model(&models.Payout{}).
		Where("payout_id = ?", payoutID).
		Updates(map[string]interface{}{
			"amount_paid":  amountPaid,
			"payment_mode": paymentMode,
			"paid_date":    paidDate,
		}).Error; err != nil {
		return nil, err
	}

	payout.AmountPaid = amountPaid
	payout.PaymentMode = &paymentMode
	payout.PaidDate = &paidDate
	return &payout, nil
}
