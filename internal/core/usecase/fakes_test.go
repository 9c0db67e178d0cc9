package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

// memDocumentRepo is an in-memory DocumentRepository preserving insertion
// order per owner.
type memDocumentRepo struct {
	mu       sync.Mutex
	docs     map[string]*domain.Document
	order    []string
	saveErr  error
	statuses map[string][]domain.DocumentStatus
}

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{
		docs:     map[string]*domain.Document{},
		statuses: map[string][]domain.DocumentStatus{},
	}
}

func (r *memDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *doc
	r.docs[doc.ID] = &copied
	r.order = append(r.order, doc.ID)
	return nil
}

func (r *memDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New(id))
	}
	copied := *doc
	copied.Extracted = doc.Extracted.Clone()
	return &copied, nil
}

func (r *memDocumentRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Document{}
	for _, id := range r.order {
		doc := r.docs[id]
		if doc.OwnerID != ownerID {
			continue
		}
		copied := *doc
		copied.Extracted = doc.Extracted.Clone()
		out = append(out, copied)
	}
	return out, nil
}

func (r *memDocumentRepo) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "update status", errors.New(id))
	}
	doc.Status = status
	doc.Error = errMessage
	doc.Extracted = nil
	r.statuses[id] = append(r.statuses[id], status)
	return nil
}

func (r *memDocumentRepo) SaveExtraction(_ context.Context, id string, result *domain.ExtractionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	doc, ok := r.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "save extraction", errors.New(id))
	}
	doc.Status = domain.StatusExtracted
	doc.Error = ""
	doc.Extracted = result.Clone()
	r.statuses[id] = append(r.statuses[id], domain.StatusExtracted)
	return nil
}

func (r *memDocumentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", errors.New(id))
	}
	delete(r.docs, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type memItrRepo struct {
	mu    sync.Mutex
	forms map[string]*domain.ItrForm
}

func newMemItrRepo() *memItrRepo {
	return &memItrRepo{forms: map[string]*domain.ItrForm{}}
}

func (r *memItrRepo) GetByOwner(_ context.Context, ownerID string) (*domain.ItrForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	form, ok := r.forms[ownerID]
	if !ok {
		return nil, domain.WrapError(domain.ErrFormNotFound, "get itr form", errors.New(ownerID))
	}
	copied := *form
	return &copied, nil
}

func (r *memItrRepo) Save(_ context.Context, form *domain.ItrForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *form
	r.forms[form.OwnerID] = &copied
	return nil
}

type memStorage struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	openErr error
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: map[string][]byte{}}
}

func (s *memStorage) Save(_ context.Context, key string, data io.Reader) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = b
	return nil
}

func (s *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return nil, s.openErr
	}
	b, ok := s.blobs[key]
	if !ok {
		return nil, errors.New("no blob for " + key)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

type recordingQueue struct {
	mu         sync.Mutex
	published  []string
	publishErr error
}

func (q *recordingQueue) PublishDocumentUploaded(_ context.Context, documentID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.publishErr != nil {
		return q.publishErr
	}
	q.published = append(q.published, documentID)
	return nil
}

func (q *recordingQueue) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

// fixedTextPDF answers every extraction with the same text, mimicking the
// never-fails contract of the real extractor.
type fixedTextPDF struct {
	text string
}

func (p fixedTextPDF) ExtractText([]byte) string { return p.text }

type stubVision struct {
	result   *domain.ExtractionResult
	err      error
	lastMime string
	calls    int
}

func (v *stubVision) Extract(_ context.Context, _ []byte, mimeType string, _ domain.DocumentType) (*domain.ExtractionResult, error) {
	v.calls++
	v.lastMime = mimeType
	if v.err != nil {
		return nil, v.err
	}
	return v.result, nil
}
