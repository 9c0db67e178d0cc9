package domain

import "time"

type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusExtracted  DocumentStatus = "extracted"
	StatusError      DocumentStatus = "error"
)

// DocumentType is the category the filer declared at upload time. It is
// never inferred from the file contents.
type DocumentType string

const (
	TypeForm16             DocumentType = "form16"
	TypeAnnualTaxStatement DocumentType = "annual_tax_statement"
	TypeSalarySlip         DocumentType = "salary_slip"
	TypeBankStatement      DocumentType = "bank_statement"
	TypeInvestmentProof    DocumentType = "investment_proof"
	TypeRentReceipt        DocumentType = "rent_receipt"
	TypeLoanStatement      DocumentType = "loan_statement"
	TypeMedicalBill        DocumentType = "medical_bill"
	TypeCapitalGainsReport DocumentType = "capital_gains_report"
	TypeBusinessIncome     DocumentType = "business_income"
)

var documentTypes = map[DocumentType]struct{}{
	TypeForm16:             {},
	TypeAnnualTaxStatement: {},
	TypeSalarySlip:         {},
	TypeBankStatement:      {},
	TypeInvestmentProof:    {},
	TypeRentReceipt:        {},
	TypeLoanStatement:      {},
	TypeMedicalBill:        {},
	TypeCapitalGainsReport: {},
	TypeBusinessIncome:     {},
}

func ParseDocumentType(raw string) (DocumentType, bool) {
	t := DocumentType(raw)
	_, ok := documentTypes[t]
	return t, ok
}

type Document struct {
	ID               string            `json:"id"`
	OwnerID          string            `json:"owner_id"`
	DeclaredType     DocumentType      `json:"declared_type"`
	MimeType         string            `json:"mime_type"`
	ByteSize         int64             `json:"byte_size"`
	OriginalFileName string            `json:"original_file_name"`
	StoragePath      string            `json:"storage_path"`
	Status           DocumentStatus    `json:"status"`
	Extracted        *ExtractionResult `json:"extracted,omitempty"`
	Error            string            `json:"error,omitempty"`
	UploadedAt       time.Time         `json:"uploaded_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type Quality string

const (
	QualityGood       Quality = "good"
	QualityLow        Quality = "low"
	QualityUnreadable Quality = "unreadable"
)

type FieldSource string

const (
	SourceRegexRule FieldSource = "rule:regex"
	SourceLineRule  FieldSource = "rule:line"
	SourceVision    FieldSource = "ocr:vision"
	SourceManual    FieldSource = "user:manual"
)

// Well-known field names emitted by extraction. The list is open: user
// corrections may introduce arbitrary names, matched via CanonicalFieldName.
const (
	FieldPAN            = "PAN"
	FieldEmployer       = "Employer"
	FieldSalary         = "Salary"
	FieldTaxableIncome  = "Taxable Income"
	FieldTDS            = "TDS"
	FieldDeductions     = "Deductions"
	FieldReportedIncome = "Reported Income"
	FieldEligible80C    = "Eligible 80C"
	FieldInterestIncome = "Interest Income"
)

type ExtractedField struct {
	Name       string      `json:"name"`
	Value      FieldValue  `json:"value"`
	Confidence float64     `json:"confidence"`
	Source     FieldSource `json:"source"`
}

// Summary is the derived income view of one document. Values default to 0
// when unknown; callers that need absent-vs-zero look at Fields instead.
type Summary struct {
	Income        int64 `json:"income"`
	Deductions    int64 `json:"deductions"`
	TaxableIncome int64 `json:"taxable_income"`
}

type ExtractionResult struct {
	DeclaredType DocumentType     `json:"declared_type"`
	Quality      Quality          `json:"quality"`
	Fields       []ExtractedField `json:"fields"`
	Summary      Summary          `json:"summary"`
	Messages     []string         `json:"messages"`
}

// FindField returns the first field whose name canonicalizes equal to name.
// Insertion order is extraction order, so first match wins.
func (r *ExtractionResult) FindField(name string) (ExtractedField, bool) {
	want := CanonicalFieldName(name)
	for _, f := range r.Fields {
		if CanonicalFieldName(f.Name) == want {
			return f, true
		}
	}
	return ExtractedField{}, false
}

// AmountOf returns the numeric value of the named field. The second result
// distinguishes an absent or textual field from a zero amount.
func (r *ExtractionResult) AmountOf(name string) (int64, bool) {
	f, ok := r.FindField(name)
	if !ok {
		return 0, false
	}
	return f.Value.Amount()
}

// Clone deep-copies the result so snapshot readers never alias the stored
// slices.
func (r *ExtractionResult) Clone() *ExtractionResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Fields = append([]ExtractedField(nil), r.Fields...)
	out.Messages = append([]string(nil), r.Messages...)
	return &out
}
