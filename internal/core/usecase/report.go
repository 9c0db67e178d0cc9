package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/taxdesk/taxdesk/internal/core/domain"
	"github.com/taxdesk/taxdesk/internal/core/extraction"
	"github.com/taxdesk/taxdesk/internal/core/ports"
	"github.com/taxdesk/taxdesk/internal/core/reconcile"
)

// ReportUseCase serves the read side: document status and data, per-type
// exports, and the filer aggregate. Everything here is a snapshot read over
// the repository; partially processed documents simply contribute nothing.
type ReportUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
}

func NewReportUseCase(repo ports.DocumentRepository, storage ports.ObjectStorage) *ReportUseCase {
	return &ReportUseCase{repo: repo, storage: storage}
}

func (uc *ReportUseCase) GetStatus(ctx context.Context, documentID string) (domain.DocumentStatusView, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return domain.DocumentStatusView{}, fmt.Errorf("fetch document by id: %w", err)
	}
	return domain.DocumentStatusView{Status: doc.Status, Error: doc.Error}, nil
}

func (uc *ReportUseCase) GetData(ctx context.Context, documentID string) (*domain.DocumentData, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	data := &domain.DocumentData{
		DocumentID: doc.ID,
		Findings:   []domain.Finding{},
	}
	if doc.Status == domain.StatusExtracted && doc.Extracted != nil {
		data.Extraction = doc.Extracted
		data.Summary = extraction.KeySummary(doc.Extracted)
	}

	owned, err := uc.repo.ListByOwner(ctx, doc.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list owner documents: %w", err)
	}
	data.Findings = reconcile.Findings(owned)
	return data, nil
}

func (uc *ReportUseCase) ExportForm16(ctx context.Context, documentID string) (extraction.Form16Export, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return extraction.Form16Export{}, fmt.Errorf("fetch document by id: %w", err)
	}
	if doc.DeclaredType != domain.TypeForm16 {
		return extraction.Form16Export{}, domain.WrapError(domain.ErrInvalidInput, "export form16",
			fmt.Errorf("document type is %s", doc.DeclaredType))
	}
	if doc.Status != domain.StatusExtracted || doc.Extracted == nil {
		return extraction.Form16Export{}, domain.WrapError(domain.ErrInvalidInput, "export form16",
			errors.New("document is not extracted yet"))
	}
	return extraction.ExportForm16(doc.Extracted), nil
}

// Delete removes the document row first, then the stored blob. A failed blob
// removal leaves only an orphaned file, never a dangling row.
func (uc *ReportUseCase) Delete(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}
	if err := uc.repo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if uc.storage != nil && doc.StoragePath != "" {
		if err := uc.storage.Remove(ctx, doc.StoragePath); err != nil {
			return fmt.Errorf("remove stored document: %w", err)
		}
	}
	return nil
}

func (uc *ReportUseCase) Aggregate(ctx context.Context, ownerID string) (domain.FilerAggregate, error) {
	docs, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return domain.FilerAggregate{}, fmt.Errorf("list owner documents: %w", err)
	}
	return reconcile.Aggregate(docs), nil
}

func (uc *ReportUseCase) Findings(ctx context.Context, ownerID string) ([]domain.Finding, error) {
	docs, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner documents: %w", err)
	}
	return reconcile.Findings(docs), nil
}
