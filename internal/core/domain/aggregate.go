package domain

// FilerAggregate is computed on demand from the filer's extracted documents.
// It is never persisted; deleting a document and recomputing yields the
// aggregate as if the document never existed.
type FilerAggregate struct {
	TotalSalary     int64 `json:"total_salary"`
	TotalDeductions int64 `json:"total_deductions"`
	TaxableIncome   int64 `json:"taxable_income"`
	TotalTDS        int64 `json:"total_tds"`
	EstimatedTax    int64 `json:"estimated_tax"`
	Refund          int64 `json:"refund"`
	TaxPayable      int64 `json:"tax_payable"`
}

type FindingCode string

const (
	FindingSalaryMismatch        FindingCode = "SALARY_MISMATCH"
	FindingTaxableIncomeMismatch FindingCode = "TAXABLE_INCOME_MISMATCH"
)

// Finding is an advisory discrepancy between two of a filer's documents.
// Findings never block upload, aggregation or submission.
type Finding struct {
	Code         FindingCode `json:"code"`
	Message      string      `json:"message"`
	FirstDocID   string      `json:"first_doc_id"`
	SecondDocID  string      `json:"second_doc_id"`
	FirstAmount  int64       `json:"first_amount"`
	SecondAmount int64       `json:"second_amount"`
}
