package document

import (
	"context"
	"io"
	"net/mail"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
)

var (
	ErrNotFound        = errors.New("document not found")
	errInvalidType     = errors.New("Please select a valid document type")
	errUnknownOwner    = errors.New("beneficiary not found")
	errNoFile          = errors.New("Please select a file to upload")
	errDuplicateUpload = errors.New("a document of this type was already uploaded for this beneficiary")
)

type (
	Repository interface {
		CreateDocument(ctx context.Context, doc Document) (Document, error)
		// QueryDocuments returns the latest uploads first.
		QueryDocuments(ctx context.Context, filter *QueryFilter) ([]Document, error)
		GetDocument(ctx context.Context, id string) (Document, error)
		UpdateDocumentStatus(ctx context.Context, id string, status Status, notes string, at time.Time) (Document, error)
		DeleteDocument(ctx context.Context, id string) error
		CountDocuments(ctx context.Context) (int, error)
	}

	// Directory looks Beneficiaries up.
	Directory interface {
		GetByID(ctx context.Context, id string) (beneficiary.Beneficiary, error)
		Query(ctx context.Context, filter *beneficiary.QueryFilter, ordering []core.DBOrdering) ([]beneficiary.Beneficiary, error)
	}

	Service struct {
		repo    Repository
		dir     Directory
		blobs   core.BlobStore
		mailSvc core.EmailService
		logger  core.Logger
		policy  UploadPolicy
		nowFunc func() time.Time
	}

	// Upload is a file submitted for storage.
	Upload struct {
		Filename      string
		Size          int64
		ContentType   string
		Content       io.Reader
		Type          Type
		BeneficiaryID string
		// Unique rejects the upload when the uploader already sent a Document of the same Type for the Beneficiary.
		Unique bool
	}

	// BeneficiaryCompletion is a Beneficiary along with the completeness of its documents.
	BeneficiaryCompletion struct {
		beneficiary.Beneficiary
		CompletionStats
		Level Level `json:"level"`
	}

	// BeneficiaryStats gathers the per-status counts and the completeness of a Beneficiary's documents.
	BeneficiaryStats struct {
		Stats
		Completion CompletionStats `json:"completion"`
		Level      Level           `json:"level"`
	}
)

func NewService(
	repo Repository,
	dir Directory,
	blobs core.BlobStore,
	mailSvc core.EmailService,
	logger core.Logger,
	policy UploadPolicy,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(dir, "dir"),
		vala.IsNotNil(blobs, "blobs"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{
		repo:    repo,
		dir:     dir,
		blobs:   blobs,
		mailSvc: mailSvc,
		logger:  logger,
		policy:  policy,
		nowFunc: time.Now,
	}
}

// Upload validates then stores the file and its metadata on behalf of actor.
// Nothing is sent to storage when validation fails. When the metadata cannot be saved,
// the stored file is removed again (best effort).
func (svc *Service) Upload(ctx context.Context, actor core.Actor, up Upload) (Document, error) {
	if err := actor.Check(); err != nil {
		return Document{}, err
	}
	if up.Content == nil || up.Filename == "" {
		return Document{}, core.NewFieldError("file", errNoFile)
	}
	if !up.Type.IsValid() {
		return Document{}, core.NewFieldError("type", errInvalidType)
	}
	if err := svc.policy.Check(up.Filename, up.Size); err != nil {
		return Document{}, err
	}
	if up.BeneficiaryID != "" {
		if _, err := svc.dir.GetByID(ctx, up.BeneficiaryID); err != nil {
			if errors.Cause(err) == beneficiary.ErrNotFound {
				return Document{}, core.NewFieldError("beneficiary_id", errUnknownOwner)
			}
			return Document{}, err
		}
		if up.Unique {
			exists, err := svc.Exists(ctx, actor.UserID, up.Type, up.BeneficiaryID)
			if err != nil {
				return Document{}, err
			}
			if exists {
				return Document{}, core.NewFieldError("type", errDuplicateUpload)
			}
		}
	}

	now := svc.nowFunc().UTC()
	path := ObjectPath(actor.UserID, up.Type, up.Filename, now)
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := svc.blobs.Upload(ctx, path, up.Content, contentType); err != nil {
		return Document{}, errors.Wrap(err, "uploading file")
	}

	doc, err := svc.repo.CreateDocument(ctx, Document{
		Name:          up.Filename,
		Type:          up.Type,
		FilePath:      path,
		FileSize:      up.Size,
		UploadedBy:    actor.UserID,
		BeneficiaryID: up.BeneficiaryID,
		Status:        StatusPending,
		UploadedAt:    now,
		UpdatedAt:     now,
	})
	if err != nil {
		if rmErr := svc.blobs.Remove(ctx, path); rmErr != nil {
			svc.logger.Warn("removing orphaned upload "+path, rmErr, actor)
		}
		return Document{}, err
	}
	return doc, nil
}

// Query lists Documents matching filter, latest first.
func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Document, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryDocuments(ctx, filter)
}

// QueryMine lists the Documents uploaded by actor.
func (svc *Service) QueryMine(ctx context.Context, actor core.Actor, filter *QueryFilter) ([]Document, error) {
	if err := actor.Check(); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &QueryFilter{}
	}
	filter.UploadedBy = actor.UserID
	return svc.Query(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Document, error) {
	return svc.repo.GetDocument(ctx, id)
}

// Download opens the stored file of doc. The caller must close it.
func (svc *Service) Download(ctx context.Context, doc Document) (io.ReadCloser, error) {
	rc, err := svc.blobs.Download(ctx, doc.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "downloading file")
	}
	return rc, nil
}

func (svc *Service) PublicURL(doc Document) string {
	return svc.blobs.PublicURL(doc.FilePath)
}

// Delete removes the Document and its file. A file that cannot be removed is logged, not reported.
func (svc *Service) Delete(ctx context.Context, actor core.Actor, id string) error {
	if err := actor.Check(); err != nil {
		return err
	}
	doc, err := svc.repo.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.blobs.Remove(ctx, doc.FilePath); err != nil {
		svc.logger.Warn("removing file of deleted document "+doc.ID, err, actor)
	}
	return svc.repo.DeleteDocument(ctx, doc.ID)
}

// UpdateStatus records a review decision and notifies the Beneficiary's guardian by email, if any.
func (svc *Service) UpdateStatus(ctx context.Context, actor core.Actor, id string, su StatusUpdate) (Document, error) {
	if err := actor.Check(); err != nil {
		return Document{}, err
	}
	if err := su.Validate(); err != nil {
		return Document{}, err
	}
	doc, err := svc.repo.UpdateDocumentStatus(ctx, id, su.Status, su.Notes, svc.nowFunc().UTC())
	if err != nil {
		return Document{}, err
	}
	if doc.Status != StatusPending && doc.BeneficiaryID != "" {
		svc.notifyGuardian(ctx, actor, doc)
	}
	return doc, nil
}

func (svc *Service) notifyGuardian(ctx context.Context, actor core.Actor, doc Document) {
	ben, err := svc.dir.GetByID(ctx, doc.BeneficiaryID)
	if err != nil {
		svc.logger.Warn("loading beneficiary to notify of document review", err, actor)
		return
	}
	if ben.GuardianEmail == "" {
		return
	}
	docs, err := svc.repo.QueryDocuments(ctx, &QueryFilter{BeneficiaryID: ben.ID})
	if err != nil {
		svc.logger.Warn("loading documents to notify of document review", err, actor)
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: ben.GuardianName, Address: ben.GuardianEmail}},
		Subject:      "Document " + string(doc.Status) + ": " + doc.Type.Label(),
		TemplateName: "document_review",
		TemplateData: map[string]interface{}{
			"GuardianName":    ben.GuardianName,
			"BeneficiaryName": ben.Name,
			"DocumentName":    doc.Name,
			"FileSize":        core.FormatFileSize(doc.FileSize),
			"TypeLabel":       doc.Type.Label(),
			"Status":          string(doc.Status),
			"Notes":           doc.Notes,
			"Percentage":      ComputeCompletion(RequiredTypes, docs).Percentage,
		},
	})
}

// Exists reports whether uploader already sent a Document of type t for the Beneficiary.
func (svc *Service) Exists(ctx context.Context, uploader string, t Type, beneficiaryID string) (bool, error) {
	docs, err := svc.repo.QueryDocuments(ctx, &QueryFilter{UploadedBy: uploader, Type: t, BeneficiaryID: beneficiaryID})
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// UploaderStats counts the Documents uploaded by actor.
func (svc *Service) UploaderStats(ctx context.Context, actor core.Actor) (Stats, error) {
	docs, err := svc.QueryMine(ctx, actor, nil)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(docs), nil
}

// BeneficiaryDocuments lists the Documents of a Beneficiary, latest first.
func (svc *Service) BeneficiaryDocuments(ctx context.Context, beneficiaryID string) ([]Document, error) {
	if _, err := svc.dir.GetByID(ctx, beneficiaryID); err != nil {
		return nil, err
	}
	return svc.repo.QueryDocuments(ctx, &QueryFilter{BeneficiaryID: beneficiaryID})
}

// BeneficiaryStats computes the document statistics of a Beneficiary. Nothing is cached.
func (svc *Service) BeneficiaryStats(ctx context.Context, beneficiaryID string) (BeneficiaryStats, error) {
	docs, err := svc.BeneficiaryDocuments(ctx, beneficiaryID)
	if err != nil {
		return BeneficiaryStats{}, err
	}
	completion := ComputeCompletion(RequiredTypes, docs)
	return BeneficiaryStats{
		Stats:      ComputeStats(docs),
		Completion: completion,
		Level:      CompletionLevel(completion.Percentage),
	}, nil
}

// CompletionByBeneficiary computes the completeness of every Beneficiary's documents, ordered by name.
func (svc *Service) CompletionByBeneficiary(ctx context.Context) ([]BeneficiaryCompletion, error) {
	bens, err := svc.dir.Query(ctx, nil, beneficiary.OrderByName)
	if err != nil {
		return nil, err
	}
	docs, err := svc.repo.QueryDocuments(ctx, nil)
	if err != nil {
		return nil, err
	}

	byOwner := make(map[string][]Document, len(bens))
	for _, doc := range docs {
		if doc.BeneficiaryID != "" {
			byOwner[doc.BeneficiaryID] = append(byOwner[doc.BeneficiaryID], doc)
		}
	}

	completions := make([]BeneficiaryCompletion, 0, len(bens))
	for _, ben := range bens {
		stats := ComputeCompletion(RequiredTypes, byOwner[ben.ID])
		completions = append(completions, BeneficiaryCompletion{
			Beneficiary:     ben,
			CompletionStats: stats,
			Level:           CompletionLevel(stats.Percentage),
		})
	}
	return completions, nil
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountDocuments(ctx)
}
