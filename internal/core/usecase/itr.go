package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/taxdesk/taxdesk/internal/core/domain"
	"github.com/taxdesk/taxdesk/internal/core/itr"
	"github.com/taxdesk/taxdesk/internal/core/ports"
)

type ItrFormUseCase struct {
	forms ports.ItrFormRepository
	now   func() time.Time
}

func NewItrFormUseCase(forms ports.ItrFormRepository) *ItrFormUseCase {
	return &ItrFormUseCase{
		forms: forms,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetForm lazily creates a draft form with deterministic defaults the first
// time a filer's form is read.
func (uc *ItrFormUseCase) GetForm(ctx context.Context, ownerID string) (*domain.ItrForm, error) {
	form, err := uc.forms.GetByOwner(ctx, ownerID)
	if err == nil {
		return form, nil
	}
	if !domain.IsKind(err, domain.ErrFormNotFound) {
		return nil, fmt.Errorf("fetch itr form: %w", err)
	}

	form = domain.NewItrForm(ownerID, uc.now())
	if err := uc.forms.Save(ctx, form); err != nil {
		return nil, fmt.Errorf("seed itr form: %w", err)
	}
	return form, nil
}

// UpdateForm is a full-document replace: the incoming payload overwrites all
// mutable sections; status and creation time are preserved.
func (uc *ItrFormUseCase) UpdateForm(ctx context.Context, incoming *domain.ItrForm) (*domain.ItrForm, error) {
	current, err := uc.GetForm(ctx, incoming.OwnerID)
	if err != nil {
		return nil, err
	}

	current.Income = incoming.Income
	current.Deductions = incoming.Deductions
	current.Investments = incoming.Investments
	current.TaxesPaid = incoming.TaxesPaid
	current.Notes = incoming.Notes
	current.UpdatedAt = uc.now()

	if err := uc.forms.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("save itr form: %w", err)
	}
	return current, nil
}

func (uc *ItrFormUseCase) ValidateForm(ctx context.Context, ownerID string) ([]domain.ValidationIssue, domain.ItrTotals, error) {
	form, err := uc.GetForm(ctx, ownerID)
	if err != nil {
		return nil, domain.ItrTotals{}, err
	}
	issues, totals := itr.Validate(form)
	return issues, totals, nil
}

// SubmitForm transitions the form to submitted after validation has been
// attempted. Outstanding issues are returned but do not block submission.
func (uc *ItrFormUseCase) SubmitForm(ctx context.Context, ownerID string) (*domain.ItrForm, []domain.ValidationIssue, error) {
	form, err := uc.GetForm(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	issues, _ := itr.Validate(form)

	form.Status = domain.ItrStatusSubmitted
	form.UpdatedAt = uc.now()
	if err := uc.forms.Save(ctx, form); err != nil {
		return nil, nil, fmt.Errorf("save submitted itr form: %w", err)
	}
	return form, issues, nil
}
