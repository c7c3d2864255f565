package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout frequencies stored on investments.
const (
	PayoutModeMonthly   = "Monthly"
	PayoutModeQuarterly = "Quarterly"
	PayoutModeYearly    = "Yearly"
)

type Investor struct {
	InvestorID uint      `gorm:"primaryKey;column:investor_id" json:"investor_id"`
	Name       string    `gorm:"column:name" json:"name"`
	Email      string    `gorm:"column:email" json:"email"`
	Phone      *string   `gorm:"column:phone" json:"phone,omitempty"`
	Locale     string    `gorm:"column:locale" json:"locale"`
	CreateAt   time.Time `gorm:"column:create_at" json:"created_at"`
}

func (Investor) TableName() string { return "investors" }

// Investment is created once when a booking converts; amount and opportunity
// are immutable afterwards.
type Investment struct {
	InvestmentID  uint             `gorm:"primaryKey;column:investment_id" json:"investment_id"`
	InvestorID    uint             `gorm:"column:investor_id;index" json:"investor_id"`
	OpportunityID uint             `gorm:"column:opportunity_id;index" json:"opportunity_id"`
	Amount        decimal.Decimal  `gorm:"column:amount;type:decimal(15,2)" json:"amount"`
	ROIPercent    *decimal.Decimal `gorm:"column:roi_percent;type:decimal(5,2)" json:"roi_percent,omitempty"`
	PayoutMode    string           `gorm:"column:payout_mode" json:"payout_mode"` // Monthly|Quarterly|Yearly
	Date          time.Time        `gorm:"column:date" json:"date"`

	// Relations
	Investor    *Investor    `gorm:"foreignKey:InvestorID" json:"investor,omitempty"`
	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID;references:OpportunityID" json:"opportunity,omitempty"`
}

func (Investment) TableName() string { return "investments" }

// Opportunity carries the payout formula parameters shared by every
// investment referencing it.
type Opportunity struct {
	OpportunityID      uint             `gorm:"primaryKey;column:opportunity_id" json:"opportunity_id"`
	Name               string           `gorm:"column:name" json:"name"`
	TurnOverAmount     *decimal.Decimal `gorm:"column:turn_over_amount;type:decimal(15,2)" json:"turn_over_amount,omitempty"`
	TurnOverPercentage *decimal.Decimal `gorm:"column:turn_over_percentage;type:decimal(5,2)" json:"turn_over_percentage,omitempty"`
	ROIPercent         *decimal.Decimal `gorm:"column:roi_percent;type:decimal(5,2)" json:"roi_percent,omitempty"`
}

func (Opportunity) TableName() string { return "opportunities" }

type Sale struct {
	SaleID        uint            `gorm:"primaryKey;column:sale_id" json:"sale_id"`
	OpportunityID uint            `gorm:"column:opportunity_id;index" json:"opportunity_id"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(15,2)" json:"amount"`
	Date          time.Time       `gorm:"column:date" json:"date"`
}

func (Sale) TableName() string { return "sales" }

// Payout is one computed installment owed to an investor. The unique index
// on (investment_id, due_date) blocks double-creation for the same period.
type Payout struct {
	PayoutID     uint            `gorm:"primaryKey;column:payout_id" json:"payout_id"`
	InvestmentID uint            `gorm:"column:investment_id;uniqueIndex:idx_payout_period" json:"investment_id"`
	DueDate      time.Time       `gorm:"column:due_date;uniqueIndex:idx_payout_period" json:"due_date"`
	AmountDue    decimal.Decimal `gorm:"column:amount_due;type:decimal(15,2)" json:"amount_due"`
	AmountPaid   decimal.Decimal `gorm:"column:amount_paid;type:decimal(15,2)" json:"amount_paid"`
	PaymentMode  *string         `gorm:"column:payment_mode" json:"payment_mode,omitempty"`
	ReceiptRef   string          `gorm:"column:receipt_ref" json:"receipt_ref"`
	Notes        *string         `gorm:"column:notes" json:"notes,omitempty"`
	PaidDate     *time.Time      `gorm:"column:paid_date" json:"paid_date,omitempty"`
	CreateAt     time.Time       `gorm:"column:create_at" json:"created_at"`
}

func (Payout) TableName() string { return "payouts" }
