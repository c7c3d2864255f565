package controllers

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"franchise-backoffice-api/config"
	"franchise-backoffice-api/models"
	"franchise-backoffice-api/services"
	"franchise-backoffice-api/utils"
)

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func parsePeriod(c *gin.Context, month, year string) (int, int, bool) {
	m, err1 := strconv.Atoi(month)
	y, err2 := strconv.Atoi(year)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "month and year are required"})
		return 0, 0, false
	}
	return m, y, true
}

// PreviewPayout computes the amount owed for an investment in a month
// without persisting anything.
// GET /api/v1/investments/:id/payouts/preview?month=&year=
func PreviewPayout(c *gin.Context) {
	investmentID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	month, year, ok := parsePeriod(c, c.Query("month"), c.Query("year"))
	if !ok {
		return
	}

	svc := services.NewPayoutService(getDB())
	amount, err := svc.ComputeMonthlyPayout(investmentID, month, year, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"amount":  amount,
		"month":   month,
		"year":    year,
	})
}

type createPayoutReq struct {
	Month int     `json:"month" binding:"required"`
	Year  int     `json:"year" binding:"required"`
	Notes *string `json:"notes"`
}

// CreatePayout computes and persists one payout row for the period, then
// notifies the investor by email.
// POST /api/v1/investments/:id/payouts
func CreatePayout(c *gin.Context) {
	investmentID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req createPayoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "month and year are required"})
		return
	}

	svc := services.NewPayoutService(getDB())
	payout, err := svc.CreatePayout(investmentID, req.Month, req.Year, time.Now(), req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	go notifyInvestorPayoutCreated(investmentID, payout)

	c.JSON(http.StatusCreated, gin.H{"success": true, "payout": payout})
}

// ListPayouts returns an investment's payout rows.
// GET /api/v1/investments/:id/payouts
func ListPayouts(c *gin.Context) {
	investmentID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewPayoutService(getDB())
	payouts, err := svc.ListPayouts(investmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payouts": payouts})
}

type payPayoutReq struct {
	AmountPaid  decimal.Decimal `json:"amount_paid" binding:"required"`
	PaymentMode string          `json:"payment_mode" binding:"required"`
	PaidDate    *time.Time      `json:"paid_date"`
}

// MarkPayoutPaid settles a payout row.
// POST /api/v1/payouts/:id/pay
func MarkPayoutPaid(c *gin.Context) {
	payoutID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req payPayoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "amount_paid and payment_mode are required"})
		return
	}

	paidDate := time.Now()
	if req.PaidDate != nil {
		paidDate = *req.PaidDate
	}

	svc := services.NewPayoutService(getDB())
	payout, err := svc.MarkPayoutPaid(payoutID, req.AmountPaid, req.PaymentMode, paidDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payout": payout})
}

// notifyInvestorPayoutCreated emails the investor about a newly scheduled
// payout. Failures are logged, never surfaced to the request.
func notifyInvestorPayoutCreated(investmentID uint, payout *models.Payout) {
	var inv models.Investment
	if err := getDB().Preload("Investor").
		First(&inv, "investment_id = ?", investmentID).Error; err != nil {
		log.Printf("payout email: load investment %d: %v", investmentID, err)
		return
	}
	if inv.Investor == nil || inv.Investor.Email == "" {
		return
	}

	locale := inv.Investor.Locale
	subject := "Payout scheduled for your investment"
	message := fmt.Sprintf(
		"A payout of %s has been scheduled for your investment, due on %s. Receipt reference: %s.",
		utils.FormatCurrency(payout.AmountDue, locale),
		utils.FormatDate(payout.DueDate, locale),
		payout.ReceiptRef,
	)

	html := buildPayoutEmailHTML(subject, inv.Investor.Name, message)
	if err := config.SendMail([]string{inv.Investor.Email}, subject, html); err != nil {
		log.Printf("payout email send failed (investment=%d to=%s): %v", investmentID, inv.Investor.Email, err)
	}
}

func buildPayoutEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "Investor"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString("Dear " + name + ",")
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
