package domain

import "time"

type ItrStatus string

const (
	ItrStatusDraft     ItrStatus = "draft"
	ItrStatusSubmitted ItrStatus = "submitted"
)

type ItrIncome struct {
	Salary       int64 `json:"salary"`
	Interest     int64 `json:"interest"`
	RentalIncome int64 `json:"rental_income"`
	OtherIncome  int64 `json:"other_income"`
}

type ItrDeductions struct {
	Section80C          int64 `json:"section_80c"`
	Section80D          int64 `json:"section_80d"`
	CharitableDonations int64 `json:"charitable_donations"`
}

type ItrInvestments struct {
	PPF  int64 `json:"ppf"`
	ELSS int64 `json:"elss"`
	NPS  int64 `json:"nps"`
}

type ItrTaxesPaid struct {
	TDS               int64 `json:"tds"`
	AdvanceTax        int64 `json:"advance_tax"`
	SelfAssessmentTax int64 `json:"self_assessment_tax"`
}

// ItrForm is the consolidated filer-level submission. It is created lazily
// on first read and mutated only via full replace-update.
type ItrForm struct {
	OwnerID     string         `json:"owner_id"`
	Income      ItrIncome      `json:"income"`
	Deductions  ItrDeductions  `json:"deductions"`
	Investments ItrInvestments `json:"investments"`
	TaxesPaid   ItrTaxesPaid   `json:"taxes_paid"`
	Notes       string         `json:"notes"`
	Status      ItrStatus      `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewItrForm seeds a draft form with deterministic defaults so the first
// read of a filer's form is reproducible.
func NewItrForm(ownerID string, now time.Time) *ItrForm {
	return &ItrForm{
		OwnerID:   ownerID,
		Status:    ItrStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type ItrTotals struct {
	TotalIncome     int64 `json:"total_income"`
	TotalDeductions int64 `json:"total_deductions"`
	TotalTaxesPaid  int64 `json:"total_taxes_paid"`
}

type ValidationIssue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
