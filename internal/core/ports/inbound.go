package ports

import (
	"context"
	"io"

	"github.com/taxdesk/taxdesk/internal/core/domain"
	"github.com/taxdesk/taxdesk/internal/core/extraction"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, ownerID, filename, mimeType string, declaredType domain.DocumentType, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous extraction.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document state and data.
type DocumentReader interface {
	GetStatus(ctx context.Context, documentID string) (domain.DocumentStatusView, error)
	GetData(ctx context.Context, documentID string) (*domain.DocumentData, error)
	ExportForm16(ctx context.Context, documentID string) (extraction.Form16Export, error)
	Delete(ctx context.Context, documentID string) error
}

// CorrectionApplier merges user-supplied field overrides into one document.
type CorrectionApplier interface {
	Apply(ctx context.Context, documentID string, corrections []extraction.Correction) ([]domain.ValidationIssue, error)
}

// AggregateReader computes the filer-wide aggregate and cross-document
// findings on demand.
type AggregateReader interface {
	Aggregate(ctx context.Context, ownerID string) (domain.FilerAggregate, error)
	Findings(ctx context.Context, ownerID string) ([]domain.Finding, error)
}

// ItrFormService manages the consolidated filer-level ITR form.
type ItrFormService interface {
	GetForm(ctx context.Context, ownerID string) (*domain.ItrForm, error)
	UpdateForm(ctx context.Context, form *domain.ItrForm) (*domain.ItrForm, error)
	ValidateForm(ctx context.Context, ownerID string) ([]domain.ValidationIssue, domain.ItrTotals, error)
	SubmitForm(ctx context.Context, ownerID string) (*domain.ItrForm, []domain.ValidationIssue, error)
}
