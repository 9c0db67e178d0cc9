package extraction

import "github.com/taxdesk/taxdesk/internal/core/domain"

// Statutory ceiling for section 80C deductions, in whole rupees.
const Ceiling80C = 150000

// Key-summary labels shared with the aggregate calculator.
const (
	LabelSalary           = "Salary"
	LabelTaxableIncome    = "Taxable Income"
	LabelDeductions       = "Deductions"
	LabelReportedIncome   = "Reported Income"
	LabelInterestEstimate = "Interest Income (est.)"
	LabelEligible80CEst   = "Eligible 80C (est.)"
	LabelEstDeduction     = "Estimated Deduction"
	LabelCapitalGainsEst  = "Capital Gains (est.)"
	LabelBusinessIncome   = "Business Income"
)

// KeySummary projects an extraction result into the small per-type view the
// UI shows. It is a pure mapping: same result, same entries.
func KeySummary(result *domain.ExtractionResult) []domain.KeySummaryEntry {
	s := result.Summary
	switch result.DeclaredType {
	case domain.TypeForm16, domain.TypeSalarySlip:
		return []domain.KeySummaryEntry{
			{Label: LabelSalary, Amount: s.Income},
			{Label: LabelTaxableIncome, Amount: s.TaxableIncome},
			{Label: LabelDeductions, Amount: s.Deductions},
		}
	case domain.TypeAnnualTaxStatement:
		return []domain.KeySummaryEntry{
			{Label: LabelReportedIncome, Amount: s.Income},
			{Label: LabelDeductions, Amount: s.Deductions},
			{Label: LabelTaxableIncome, Amount: s.TaxableIncome},
		}
	case domain.TypeBankStatement:
		return []domain.KeySummaryEntry{
			{Label: LabelInterestEstimate, Amount: max64(0, s.TaxableIncome-(s.Income-s.Deductions))},
		}
	case domain.TypeInvestmentProof:
		return []domain.KeySummaryEntry{
			{Label: LabelEligible80CEst, Amount: min64(s.Deductions, Ceiling80C)},
		}
	case domain.TypeRentReceipt, domain.TypeLoanStatement, domain.TypeMedicalBill:
		return []domain.KeySummaryEntry{
			{Label: LabelEstDeduction, Amount: s.Deductions},
		}
	case domain.TypeCapitalGainsReport:
		return []domain.KeySummaryEntry{
			{Label: LabelCapitalGainsEst, Amount: max64(0, s.Income-s.TaxableIncome)},
		}
	case domain.TypeBusinessIncome:
		return []domain.KeySummaryEntry{
			{Label: LabelBusinessIncome, Amount: s.Income},
			{Label: LabelTaxableIncome, Amount: s.TaxableIncome},
		}
	default:
		return nil
	}
}

// Form16Export is the canonical Form-16-shaped export schema.
type Form16Export struct {
	EmployeePAN     string         `json:"employee_pan"`
	Employer        string         `json:"employer"`
	GrossSalary     int64          `json:"gross_salary"`
	TotalDeductions int64          `json:"total_deductions"`
	TaxableIncome   int64          `json:"taxable_income"`
	TDSDeducted     int64          `json:"tds_deducted"`
	Quality         domain.Quality `json:"quality"`
}

// ExportForm16 maps the generic field list into the Form-16 export schema.
// Missing amounts export as the derived summary values.
func ExportForm16(result *domain.ExtractionResult) Form16Export {
	export := Form16Export{
		GrossSalary:     result.Summary.Income,
		TotalDeductions: result.Summary.Deductions,
		TaxableIncome:   result.Summary.TaxableIncome,
		Quality:         result.Quality,
	}
	if f, ok := result.FindField(domain.FieldPAN); ok {
		export.EmployeePAN = f.Value.Text()
	}
	if f, ok := result.FindField(domain.FieldEmployer); ok {
		export.Employer = f.Value.Text()
	}
	if v, ok := result.AmountOf(domain.FieldTDS); ok {
		export.TDSDeducted = v
	}
	return export
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
