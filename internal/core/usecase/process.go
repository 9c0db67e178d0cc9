package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/taxdesk/taxdesk/internal/core/domain"
	"github.com/taxdesk/taxdesk/internal/core/extraction"
	"github.com/taxdesk/taxdesk/internal/core/ports"
)

// processingFailedMessage is what a filer sees when the pipeline itself
// breaks; the document stays recoverable via re-upload.
const processingFailedMessage = "Processing failed"

type ProcessDocumentUseCase struct {
	repo          ports.DocumentRepository
	storage       ports.ObjectStorage
	pdf           ports.PDFTextExtractor
	vision        ports.VisionExtractor
	visionTimeout time.Duration
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	pdf ports.PDFTextExtractor,
	vision ports.VisionExtractor,
	visionTimeout time.Duration,
) *ProcessDocumentUseCase {
	if visionTimeout <= 0 {
		visionTimeout = 30 * time.Second
	}
	return &ProcessDocumentUseCase{
		repo:          repo,
		storage:       storage,
		pdf:           pdf,
		vision:        vision,
		visionTimeout: visionTimeout,
	}
}

// ProcessByID owns the document's status transition exclusively: no other
// task touches this document while it is processing.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.extract(ctx, documentID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusError, processingFailedMessage); failErr != nil {
			return fmt.Errorf("%w; mark error status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveExtraction(ctx, documentID, result); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusError, processingFailedMessage); failErr != nil {
			return fmt.Errorf("%w; mark error status: %v", err, failErr)
		}
		return fmt.Errorf("save extraction: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) extract(ctx context.Context, documentID string) (*domain.ExtractionResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	data, err := uc.readBytes(ctx, doc)
	if err != nil {
		return nil, err
	}

	// Image path: try the vision backend first. Every vision failure mode
	// degrades to heuristic extraction on empty text, which yields an
	// unreadable verdict plus an advisory, never a pipeline error.
	if isImageMime(doc.MimeType) && uc.vision != nil {
		visionCtx, cancel := context.WithTimeout(ctx, uc.visionTimeout)
		result, visionErr := uc.vision.Extract(visionCtx, data, doc.MimeType, doc.DeclaredType)
		cancel()
		if visionErr == nil && result != nil {
			return result, nil
		}
		return extraction.Extract("", doc.DeclaredType), nil
	}

	text := uc.sourceText(doc, data)
	return extraction.Extract(text, doc.DeclaredType), nil
}

func (uc *ProcessDocumentUseCase) readBytes(ctx context.Context, doc *domain.Document) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read stored document: %w", err)
	}
	return data, nil
}

// sourceText selects the text source for the heuristic extractor. PDF parse
// failures come back as empty text by contract, which the extractor turns
// into an unreadable verdict.
func (uc *ProcessDocumentUseCase) sourceText(doc *domain.Document, data []byte) string {
	switch {
	case isPDFMime(doc.MimeType) || strings.HasSuffix(strings.ToLower(doc.OriginalFileName), ".pdf"):
		return extraction.NormalizeText(uc.pdf.ExtractText(data))
	case isImageMime(doc.MimeType):
		return ""
	default:
		return extraction.NormalizeText(string(data))
	}
}

func isPDFMime(mimeType string) bool {
	return strings.EqualFold(strings.TrimSpace(mimeType), "application/pdf")
}

func isImageMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}
