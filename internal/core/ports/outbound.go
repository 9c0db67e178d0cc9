package ports

import (
	"context"
	"io"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

// DocumentRepository persists and reads document state. ListByOwner returns
// documents in insertion order; reconciliation depends on it.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveExtraction(ctx context.Context, id string, result *domain.ExtractionResult) error
	Delete(ctx context.Context, id string) error
}

// ItrFormRepository persists the filer-level ITR form, one per owner.
type ItrFormRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*domain.ItrForm, error)
	Save(ctx context.Context, form *domain.ItrForm) error
}

// ObjectStorage stores uploaded document bytes. Remove is idempotent.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes extraction jobs.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// PDFTextExtractor extracts embedded text from PDF bytes. Implementations
// return empty text, never an error, when the PDF cannot be parsed.
type PDFTextExtractor interface {
	ExtractText(data []byte) string
}

// VisionExtractor is the optional external-AI extraction path for image
// documents. Implementations return domain.ErrVisionUnavailable when no
// backend is configured, the mime type is not an image, or transport fails;
// callers then fall back to heuristic extraction on empty text.
type VisionExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType string, declaredType domain.DocumentType) (*domain.ExtractionResult, error)
}
