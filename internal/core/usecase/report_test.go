package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

func seedExtractedForOwner(t *testing.T, repo *memDocumentRepo, id string, declared domain.DocumentType, result *domain.ExtractionResult) {
	t.Helper()
	doc := &domain.Document{
		ID:           id,
		OwnerID:      "owner-1",
		DeclaredType: declared,
		StoragePath:  id + "_file.pdf",
		Status:       domain.StatusPending,
		UploadedAt:   time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	if result != nil {
		if err := repo.SaveExtraction(context.Background(), id, result); err != nil {
			t.Fatal(err)
		}
	}
}

func goodForm16Result(salary, taxable, tds int64) *domain.ExtractionResult {
	return &domain.ExtractionResult{
		DeclaredType: domain.TypeForm16,
		Quality:      domain.QualityGood,
		Fields: []domain.ExtractedField{
			{Name: domain.FieldPAN, Value: domain.TextValue("ABCDE1234F"), Confidence: 0.95, Source: domain.SourceRegexRule},
			{Name: domain.FieldSalary, Value: domain.AmountValue(salary), Confidence: 0.9, Source: domain.SourceLineRule},
			{Name: domain.FieldTaxableIncome, Value: domain.AmountValue(taxable), Confidence: 0.85, Source: domain.SourceLineRule},
			{Name: domain.FieldTDS, Value: domain.AmountValue(tds), Confidence: 0.8, Source: domain.SourceLineRule},
		},
		Summary: domain.Summary{Income: salary, TaxableIncome: taxable},
	}
}

func TestGetStatus(t *testing.T) {
	repo := newMemDocumentRepo()
	seedExtractedForOwner(t, repo, "doc-1", domain.TypeForm16, nil)
	uc := NewReportUseCase(repo, newMemStorage())

	view, err := uc.GetStatus(context.Background(), "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if view.Status != domain.StatusPending || view.Error != "" {
		t.Fatalf("view = %+v", view)
	}

	if _, err := uc.GetStatus(context.Background(), "missing"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want document not found", err)
	}
}

func TestGetDataIncludesSummaryAndFindings(t *testing.T) {
	repo := newMemDocumentRepo()
	seedExtractedForOwner(t, repo, "doc-1", domain.TypeForm16, goodForm16Result(1000000, 950000, 90000))

	slipResult := goodForm16Result(1030000, 950000, 90000)
	slipResult.DeclaredType = domain.TypeSalarySlip
	seedExtractedForOwner(t, repo, "doc-2", domain.TypeSalarySlip, slipResult)

	uc := NewReportUseCase(repo, newMemStorage())
	data, err := uc.GetData(context.Background(), "doc-1")
	if err != nil {
		t.Fatal(err)
	}

	if data.Extraction == nil || len(data.Summary) == 0 {
		t.Fatalf("data = %+v", data)
	}
	if len(data.Findings) != 1 || data.Findings[0].Code != domain.FindingSalaryMismatch {
		t.Fatalf("findings = %+v", data.Findings)
	}
}

func TestGetDataPendingDocumentHasNoExtraction(t *testing.T) {
	repo := newMemDocumentRepo()
	seedExtractedForOwner(t, repo, "doc-1", domain.TypeForm16, nil)

	uc := NewReportUseCase(repo, newMemStorage())
	data, err := uc.GetData(context.Background(), "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if data.Extraction != nil || data.Summary != nil {
		t.Fatalf("pending document leaked extraction: %+v", data)
	}
	if data.Findings == nil {
		t.Fatal("findings must be an empty list, not nil")
	}
}

func TestExportForm16Guards(t *testing.T) {
	repo := newMemDocumentRepo()
	seedExtractedForOwner(t, repo, "doc-1", domain.TypeForm16, goodForm16Result(1200000, 1050000, 110000))
	seedExtractedForOwner(t, repo, "doc-2", domain.TypeSalarySlip, nil)
	seedExtractedForOwner(t, repo, "doc-3", domain.TypeForm16, nil)

	uc := NewReportUseCase(repo, newMemStorage())

	export, err := uc.ExportForm16(context.Background(), "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if export.EmployeePAN != "ABCDE1234F" || export.GrossSalary != 1200000 || export.TDSDeducted != 110000 {
		t.Fatalf("export = %+v", export)
	}

	if _, err := uc.ExportForm16(context.Background(), "doc-2"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("wrong type err = %v", err)
	}
	if _, err := uc.ExportForm16(context.Background(), "doc-3"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("unextracted err = %v", err)
	}
}

func TestDeleteRemovesRowAndBlob(t *testing.T) {
	repo := newMemDocumentRepo()
	storage := newMemStorage()
	seedExtractedForOwner(t, repo, "doc-1", domain.TypeForm16, goodForm16Result(1200000, 1050000, 110000))
	storage.blobs["doc-1_file.pdf"] = []byte("bytes")

	uc := NewReportUseCase(repo, storage)
	if err := uc.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.GetByID(context.Background(), "doc-1"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("row still present: %v", err)
	}
	if _, ok := storage.blobs["doc-1_file.pdf"]; ok {
		t.Fatal("blob still present")
	}

	if err := uc.Delete(context.Background(), "doc-1"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestAggregateExcludesDeletedDocuments(t *testing.T) {
	repo := newMemDocumentRepo()
	storage := newMemStorage()
	seedExtractedForOwner(t, repo, "doc-1", domain.TypeForm16, goodForm16Result(1200000, 1050000, 110000))
	seedExtractedForOwner(t, repo, "doc-2", domain.TypeForm16, goodForm16Result(500000, 400000, 10000))

	uc := NewReportUseCase(repo, storage)

	before, err := uc.Aggregate(context.Background(), "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if before.TotalSalary != 1700000 {
		t.Fatalf("total salary = %d", before.TotalSalary)
	}

	if err := uc.Delete(context.Background(), "doc-2"); err != nil {
		t.Fatal(err)
	}

	after, err := uc.Aggregate(context.Background(), "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if after.TotalSalary != 1200000 || after.TotalTDS != 110000 {
		t.Fatalf("aggregate after delete = %+v", after)
	}
}

func TestFindingsForOwner(t *testing.T) {
	repo := newMemDocumentRepo()
	seedExtractedForOwner(t, repo, "doc-1", domain.TypeForm16, goodForm16Result(1000000, 950000, 90000))

	uc := NewReportUseCase(repo, newMemStorage())
	findings, err := uc.Findings(context.Background(), "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("findings = %+v", findings)
	}
}
