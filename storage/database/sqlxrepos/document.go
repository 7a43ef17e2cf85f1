package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/divyang/core/document"
)

const documentColumns = `id, name, type, file_path, file_size, uploaded_by, beneficiary_id, status, notes, uploaded_at, updated_at`

type documentRow struct {
	ID            string      `db:"id"`
	Name          string      `db:"name"`
	Type          string      `db:"type"`
	FilePath      string      `db:"file_path"`
	FileSize      int64       `db:"file_size"`
	UploadedBy    string      `db:"uploaded_by"`
	BeneficiaryID null.String `db:"beneficiary_id"`
	Status        string      `db:"status"`
	Notes         null.String `db:"notes"`
	UploadedAt    time.Time   `db:"uploaded_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func (r documentRow) unmarshal() document.Document {
	return document.Document{
		ID:            r.ID,
		Name:          r.Name,
		Type:          document.Type(r.Type),
		FilePath:      r.FilePath,
		FileSize:      r.FileSize,
		UploadedBy:    r.UploadedBy,
		BeneficiaryID: r.BeneficiaryID.String,
		Status:        document.Status(r.Status),
		Notes:         r.Notes.String,
		UploadedAt:    r.UploadedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type documentRepository struct {
	db *sqlx.DB
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *sqlx.DB) document.Repository {
	return &documentRepository{db: db}
}

func (repo *documentRepository) CreateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	doc.ID = uuid.New().String()
	q := `INSERT INTO documents (` + documentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := repo.db.ExecContext(ctx, q,
		doc.ID, doc.Name, string(doc.Type), doc.FilePath, doc.FileSize, doc.UploadedBy,
		nullString(doc.BeneficiaryID), string(doc.Status), nullString(doc.Notes),
		doc.UploadedAt.UTC(), doc.UpdatedAt.UTC())
	if err != nil {
		return document.Document{}, errors.Wrap(err, "inserting document")
	}
	return doc, nil
}

func (repo *documentRepository) QueryDocuments(ctx context.Context, filter *document.QueryFilter) ([]document.Document, error) {
	w := &where{}
	if !filter.IsEmpty() {
		if filter.UploadedBy != "" {
			w.add("uploaded_by::text = $%d", filter.UploadedBy)
		}
		if filter.BeneficiaryID != "" {
			w.add("beneficiary_id::text = $%d", filter.BeneficiaryID)
		}
		if filter.Search != "" {
			w.add("name ILIKE $%d", "%"+filter.Search+"%")
		}
		if filter.Type != "" {
			w.add("type::text = $%d", string(filter.Type))
		}
		if filter.Status != "" {
			w.add("status::text = $%d", string(filter.Status))
		}
	}
	q := `SELECT ` + documentColumns + ` FROM documents` + w.String() + ` ORDER BY uploaded_at DESC, id ASC`

	var rows []documentRow
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting documents")
	}
	docs := make([]document.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.unmarshal())
	}
	return docs, nil
}

func (repo *documentRepository) GetDocument(ctx context.Context, id string) (document.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return document.Document{}, document.ErrNotFound
	}
	var row documentRow
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return document.Document{}, trapNoRowsErr(err, document.ErrNotFound, "selecting document")
	}
	return row.unmarshal(), nil
}

func (repo *documentRepository) UpdateDocumentStatus(
	ctx context.Context,
	id string,
	status document.Status,
	notes string,
	at time.Time,
) (document.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return document.Document{}, document.ErrNotFound
	}
	var row documentRow
	q := `UPDATE documents SET status = $2, notes = $3, updated_at = $4 WHERE id = $1 RETURNING ` + documentColumns
	if err := repo.db.GetContext(ctx, &row, q, id, string(status), nullString(notes), at.UTC()); err != nil {
		return document.Document{}, trapNoRowsErr(err, document.ErrNotFound, "updating document status")
	}
	return row.unmarshal(), nil
}

func (repo *documentRepository) DeleteDocument(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return document.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting document")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (repo *documentRepository) CountDocuments(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM documents`); err != nil {
		return 0, errors.Wrap(err, "counting documents")
	}
	return count, nil
}
