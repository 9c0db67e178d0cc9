package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/taxdesk/taxdesk/internal/core/domain"
	"github.com/taxdesk/taxdesk/internal/core/extraction"
	"github.com/taxdesk/taxdesk/internal/core/ports"
)

type ApplyCorrectionsUseCase struct {
	repo ports.DocumentRepository
}

func NewApplyCorrectionsUseCase(repo ports.DocumentRepository) *ApplyCorrectionsUseCase {
	return &ApplyCorrectionsUseCase{repo: repo}
}

// Apply validates and merges a correction set for one document. Merging is
// all-or-nothing: when any field fails validation the issues are returned
// and nothing is merged.
func (uc *ApplyCorrectionsUseCase) Apply(
	ctx context.Context,
	documentID string,
	corrections []extraction.Correction,
) ([]domain.ValidationIssue, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	if doc.Status != domain.StatusExtracted || doc.Extracted == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "apply corrections",
			errors.New("document has no extraction to correct yet"))
	}

	if issues := extraction.ValidateCorrections(doc.Extracted, corrections); len(issues) > 0 {
		return issues, nil
	}

	merged := extraction.ApplyCorrections(doc.Extracted, corrections)
	if err := uc.repo.SaveExtraction(ctx, documentID, merged); err != nil {
		return nil, fmt.Errorf("save corrected extraction: %w", err)
	}
	return nil, nil
}
