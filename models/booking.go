package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingFormPersonalDetails is a prospective investor's application record
// and the aggregation root for the role notification feeds. Document URL
// fields carry a paired approval flag; the tax id has no approval workflow.
type BookingFormPersonalDetails struct {
	BookingID uint    `gorm:"primaryKey;column:booking_id" json:"booking_id"`
	FirstName string  `gorm:"column:first_name" json:"first_name"`
	LastName  string  `gorm:"column:last_name" json:"last_name"`
	Email     string  `gorm:"column:email" json:"email"`
	Phone     *string `gorm:"column:phone" json:"phone,omitempty"`
	Locale    string  `gorm:"column:locale" json:"locale"`

	PhotoURL             *string `gorm:"column:photo_url" json:"photo_url,omitempty"`
	PhotoApproved        bool    `gorm:"column:photo_is_approved" json:"photo_is_approved"`
	IDProofURL           *string `gorm:"column:id_proof_url" json:"id_proof_url,omitempty"`
	IDProofApproved      bool    `gorm:"column:id_proof_is_approved" json:"id_proof_is_approved"`
	AddressProofURL      *string `gorm:"column:address_proof_url" json:"address_proof_url,omitempty"`
	AddressProofApproved bool    `gorm:"column:address_proof_is_approved" json:"address_proof_is_approved"`
	AgreementURL         *string `gorm:"column:agreement_url" json:"agreement_url,omitempty"`
	AgreementApproved    bool    `gorm:"column:agreement_is_approved" json:"agreement_is_approved"`
	BankChequeURL        *string `gorm:"column:bank_cheque_url" json:"bank_cheque_url,omitempty"`
	BankChequeApproved   bool    `gorm:"column:bank_cheque_is_approved" json:"bank_cheque_is_approved"`
	TaxID                *string `gorm:"column:tax_id" json:"tax_id,omitempty"`

	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"-"`

	// Relations
	PaymentDetails *PaymentDetails `gorm:"foreignKey:BookingID" json:"payment_details,omitempty"`
	OfficeDetails  *OfficeDetails  `gorm:"foreignKey:BookingID" json:"office_details,omitempty"`
}

func (BookingFormPersonalDetails) TableName() string { return "booking_form_personal_details" }

type PaymentDetails struct {
	PaymentDetailsID uint            `gorm:"primaryKey;column:payment_details_id" json:"payment_details_id"`
	BookingID        uint            `gorm:"column:booking_id;index" json:"booking_id"`
	TokenAmount      decimal.Decimal `gorm:"column:token_amount;type:decimal(15,2)" json:"token_amount"`
	TokenApproved    bool            `gorm:"column:token_is_approved" json:"token_is_approved"`
	TokenProofURL    *string         `gorm:"column:token_proof_url" json:"token_proof_url,omitempty"`
	BalanceDue       decimal.Decimal `gorm:"column:balance_due;type:decimal(15,2)" json:"balance_due"`

	ScheduledPayments []ScheduledPayment `gorm:"foreignKey:PaymentDetailsID" json:"scheduled_payments,omitempty"`
}

func (PaymentDetails) TableName() string { return "payment_details" }

type ScheduledPayment struct {
	ScheduledPaymentID uint            `gorm:"primaryKey;column:scheduled_payment_id" json:"scheduled_payment_id"`
	PaymentDetailsID   uint            `gorm:"column:payment_details_id;index" json:"payment_details_id"`
	Amount             decimal.Decimal `gorm:"column:amount;type:decimal(15,2)" json:"amount"`
	DueDate            time.Time       `gorm:"column:due_date" json:"due_date"`
	Approved           bool            `gorm:"column:is_approved" json:"is_approved"`
	ProofURL           *string         `gorm:"column:proof_url" json:"proof_url,omitempty"`
}

func (ScheduledPayment) TableName() string { return "scheduled_payments" }

// OfficeDetails holds the four staff/branch assignments made by the admin
// team while a booking is processed.
type OfficeDetails struct {
	OfficeDetailsID  uint  `gorm:"primaryKey;column:office_details_id" json:"office_details_id"`
	BookingID        uint  `gorm:"column:booking_id;index" json:"booking_id"`
	LegalOfficerID   *uint `gorm:"column:legal_officer_id" json:"legal_officer_id,omitempty"`
	FinanceOfficerID *uint `gorm:"column:finance_officer_id" json:"finance_officer_id,omitempty"`
	SalesRepID       *uint `gorm:"column:sales_rep_id" json:"sales_rep_id,omitempty"`
	BranchID         *uint `gorm:"column:branch_id" json:"branch_id,omitempty"`
}

func (OfficeDetails) TableName() string { return "office_details" }
