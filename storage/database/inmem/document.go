package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/divyang/core/document"
)

type documentRepository struct {
	db *DB
}

var _ document.Repository = (*documentRepository)(nil)

func NewDocumentRepository(db *DB) document.Repository {
	return &documentRepository{db: db}
}

func (repo *documentRepository) CreateDocument(_ context.Context, doc document.Document) (document.Document, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.writeErr(); err != nil {
		return document.Document{}, err
	}
	doc.ID = newID()
	repo.db.documents[doc.ID] = &doc
	return doc, nil
}

func (repo *documentRepository) QueryDocuments(_ context.Context, filter *document.QueryFilter) ([]document.Document, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	docs := make([]document.Document, 0, len(repo.db.documents))
	for _, doc := range repo.db.documents {
		if filter.IsEmpty() || matchesDocument(*doc, filter) {
			docs = append(docs, *doc)
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

func matchesDocument(doc document.Document, filter *document.QueryFilter) bool {
	return (filter.UploadedBy == "" || doc.UploadedBy == filter.UploadedBy) &&
		(filter.BeneficiaryID == "" || doc.BeneficiaryID == filter.BeneficiaryID) &&
		(filter.Search == "" || containsFold(doc.Name, filter.Search)) &&
		(filter.Type == "" || doc.Type == filter.Type) &&
		(filter.Status == "" || doc.Status == filter.Status)
}

func (repo *documentRepository) GetDocument(_ context.Context, id string) (document.Document, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if doc, ok := repo.db.documents[id]; ok {
		return *doc, nil
	}
	return document.Document{}, document.ErrNotFound
}

func (repo *documentRepository) UpdateDocumentStatus(
	_ context.Context,
	id string,
	status document.Status,
	notes string,
	at time.Time,
) (document.Document, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.writeErr(); err != nil {
		return document.Document{}, err
	}
	doc, ok := repo.db.documents[id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	doc.Status = status
	doc.Notes = notes
	doc.UpdatedAt = at
	return *doc, nil
}

func (repo *documentRepository) DeleteDocument(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.writeErr(); err != nil {
		return err
	}
	if _, ok := repo.db.documents[id]; !ok {
		return document.ErrNotFound
	}
	delete(repo.db.documents, id)
	return nil
}

func (repo *documentRepository) CountDocuments(context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.documents), nil
}
