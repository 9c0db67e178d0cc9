package httpadapter

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/taxdesk/taxdesk/internal/core/domain"
)

// In-memory ports shared by the router tests. Documents keep insertion
// order because reconciliation depends on it.

type memoryDocumentRepo struct {
	mu    sync.Mutex
	order []string
	docs  map[string]*domain.Document
}

func newMemoryDocumentRepo() *memoryDocumentRepo {
	return &memoryDocumentRepo{docs: map[string]*domain.Document{}}
}

func (r *memoryDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *doc
	r.docs[doc.ID] = &copied
	r.order = append(r.order, doc.ID)
	return nil
}

func (r *memoryDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", io.EOF)
	}
	copied := *doc
	return &copied, nil
}

func (r *memoryDocumentRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := []domain.Document{}
	for _, id := range r.order {
		if doc := r.docs[id]; doc.OwnerID == ownerID {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (r *memoryDocumentRepo) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "update status", io.EOF)
	}
	doc.Status = status
	doc.Error = errMessage
	doc.Extracted = nil
	return nil
}

func (r *memoryDocumentRepo) SaveExtraction(_ context.Context, id string, result *domain.ExtractionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "save extraction", io.EOF)
	}
	doc.Status = domain.StatusExtracted
	doc.Error = ""
	doc.Extracted = result
	return nil
}

func (r *memoryDocumentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", io.EOF)
	}
	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type memoryItrRepo struct {
	mu    sync.Mutex
	forms map[string]*domain.ItrForm
}

func newMemoryItrRepo() *memoryItrRepo {
	return &memoryItrRepo{forms: map[string]*domain.ItrForm{}}
}

func (r *memoryItrRepo) GetByOwner(_ context.Context, ownerID string) (*domain.ItrForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	form, ok := r.forms[ownerID]
	if !ok {
		return nil, domain.WrapError(domain.ErrFormNotFound, "get itr form", io.EOF)
	}
	copied := *form
	return &copied, nil
}

func (r *memoryItrRepo) Save(_ context.Context, form *domain.ItrForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *form
	r.forms[form.OwnerID] = &copied
	return nil
}

type memoryStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{blobs: map[string][]byte{}}
}

func (s *memoryStorage) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = raw
	return nil
}

func (s *memoryStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.blobs[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (s *memoryStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

type recordingQueue struct {
	mu        sync.Mutex
	published []string
}

func (q *recordingQueue) PublishDocumentUploaded(_ context.Context, documentID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, documentID)
	return nil
}

func (q *recordingQueue) SubscribeDocumentUploaded(ctx context.Context, _ func(context.Context, string) error) error {
	<-ctx.Done()
	return nil
}

func (q *recordingQueue) publishedIDs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string{}, q.published...)
}
