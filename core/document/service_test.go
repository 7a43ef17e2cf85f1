package document_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
	"github.com/trezcool/divyang/core/document"
	emailsvc "github.com/trezcool/divyang/services/email"
	inmemdb "github.com/trezcool/divyang/storage/database/inmem"
	testutil "github.com/trezcool/divyang/tests"
)

type fixture struct {
	db      *inmemdb.DB
	svc     *document.Service
	blobs   *testutil.BlobStore
	logger  *testutil.Logger
	mailSvc *emailsvc.ConsoleServiceMock
	ben     beneficiary.Beneficiary
	actor   core.Actor
}

func setup(t *testing.T) *fixture {
	conf := testutil.NewConfig()
	db := inmemdb.NewDB()
	benRepo := inmemdb.NewBeneficiaryRepository(db)

	ben := testutil.CreateBeneficiary(t, benRepo, "Asha", "Surat")
	ben.GuardianEmail = "guardian@example.com"
	ben, err := benRepo.UpdateBeneficiary(context.Background(), ben)
	require.NoError(t, err)

	f := &fixture{
		db:     db,
		blobs:  testutil.NewBlobStore(),
		logger: &testutil.Logger{},
		ben:    ben,
		actor:  core.Actor{UserID: "u-staff", Email: "staff@example.com"},
	}
	f.mailSvc = emailsvc.NewConsoleServiceMock(conf, f.logger)
	f.svc = document.NewService(
		inmemdb.NewDocumentRepository(db),
		beneficiary.NewService(benRepo),
		f.blobs,
		f.mailSvc,
		f.logger,
		document.DefaultUploadPolicy(),
	)
	return f
}

func (f *fixture) upload(t *testing.T, name string, typ document.Type) document.Document {
	doc, err := f.svc.Upload(context.Background(), f.actor, document.Upload{
		Filename:      name,
		Size:          int64(len(name)),
		Content:       strings.NewReader(name),
		Type:          typ,
		BeneficiaryID: f.ben.ID,
	})
	require.NoError(t, err)
	return doc
}

func TestService_Upload(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	doc := f.upload(t, "certificate.pdf", document.TypeDisabilityCertificate)
	assert.Equal(t, document.StatusPending, doc.Status)
	assert.Equal(t, f.actor.UserID, doc.UploadedBy)
	assert.Equal(t, f.ben.ID, doc.BeneficiaryID)
	assert.True(t, strings.HasPrefix(doc.FilePath, f.actor.UserID+"/disability_certificate_"))
	assert.True(t, strings.HasSuffix(doc.FilePath, ".pdf"))
	assert.True(t, f.blobs.Has(doc.FilePath))
	assert.Equal(t, "https://blobs.test/"+doc.FilePath, f.svc.PublicURL(doc))

	rc, err := f.svc.Download(ctx, doc)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	_ = rc.Close()
	assert.Equal(t, "certificate.pdf", string(content))
}

func TestService_Upload_rejectsBeforeStoring(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	valid := func() document.Upload {
		return document.Upload{
			Filename:      "photo.jpg",
			Size:          1024,
			Content:       strings.NewReader("jpg"),
			Type:          document.TypePassportPhoto,
			BeneficiaryID: f.ben.ID,
		}
	}

	tests := []struct {
		name      string
		edit      func(up *document.Upload)
		wantField string
	}{
		{name: "no file", edit: func(up *document.Upload) { up.Content = nil }, wantField: "file"},
		{name: "bad type", edit: func(up *document.Upload) { up.Type = "passport" }, wantField: "type"},
		{name: "too large", edit: func(up *document.Upload) { up.Size = 11 * 1024 * 1024 }, wantField: "file"},
		{name: "bad extension", edit: func(up *document.Upload) { up.Filename = "run.exe" }, wantField: "file"},
		{name: "unknown beneficiary", edit: func(up *document.Upload) { up.BeneficiaryID = "missing" }, wantField: "beneficiary_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := valid()
			tt.edit(&up)
			_, err := f.svc.Upload(ctx, f.actor, up)
			require.Error(t, err)
			verr, ok := core.AsValidationError(err)
			require.True(t, ok)
			assert.Contains(t, verr.FieldsMap(), tt.wantField)
			assert.Zero(t, f.blobs.Calls)
		})
	}

	_, err := f.svc.Upload(ctx, core.Actor{}, valid())
	assert.Equal(t, core.ErrNoActor, err)
	assert.Zero(t, f.blobs.Calls)
}

func TestService_Upload_unique(t *testing.T) {
	f := setup(t)
	f.upload(t, "aadhaar.pdf", document.TypeIdentityProof)

	_, err := f.svc.Upload(context.Background(), f.actor, document.Upload{
		Filename:      "aadhaar-2.pdf",
		Size:          10,
		Content:       strings.NewReader("x"),
		Type:          document.TypeIdentityProof,
		BeneficiaryID: f.ben.ID,
		Unique:        true,
	})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))
}

func TestService_Upload_removesOrphanedFile(t *testing.T) {
	f := setup(t)
	boom := errors.New("db down")
	f.db.FailNextWrite = boom

	_, err := f.svc.Upload(context.Background(), f.actor, document.Upload{
		Filename: "report.pdf",
		Size:     10,
		Content:  strings.NewReader("x"),
		Type:     document.TypeMedicalReport,
	})
	assert.Equal(t, boom, errors.Cause(err))
	require.Len(t, f.blobs.Removed, 1)
	assert.Empty(t, f.blobs.Files)

	docs, err := f.svc.Query(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestService_Delete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	doc := f.upload(t, "birth.pdf", document.TypeBirthCertificate)

	assert.Equal(t, document.ErrNotFound, f.svc.Delete(ctx, f.actor, "missing"))

	// a file that cannot be removed does not prevent the deletion
	f.blobs.RemoveErr = errors.New("storage down")
	require.NoError(t, f.svc.Delete(ctx, f.actor, doc.ID))
	assert.Len(t, f.logger.Level("warn"), 1)

	_, err := f.svc.GetByID(ctx, doc.ID)
	assert.Equal(t, document.ErrNotFound, err)
}

func TestService_UpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	doc := f.upload(t, "cert.pdf", document.TypeDisabilityCertificate)
	f.upload(t, "id.pdf", document.TypeIdentityProof)

	_, err := f.svc.UpdateStatus(ctx, f.actor, doc.ID, document.StatusUpdate{Status: "lost"})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))

	_, err = f.svc.UpdateStatus(ctx, f.actor, "missing", document.StatusUpdate{Status: document.StatusApproved})
	assert.Equal(t, document.ErrNotFound, err)

	updated, err := f.svc.UpdateStatus(ctx, f.actor, doc.ID, document.StatusUpdate{Status: " Approved ", Notes: "Looks good"})
	require.NoError(t, err)
	assert.Equal(t, document.StatusApproved, updated.Status)
	assert.Equal(t, "Looks good", updated.Notes)

	sent := f.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "guardian@example.com", sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "has been approved")
	assert.Contains(t, sent[0].TextContent, "Reviewer notes: Looks good")
	// 2 of 7 required types
	assert.Contains(t, sent[0].TextContent, "29%")

	// back to pending: nobody is notified
	_, err = f.svc.UpdateStatus(ctx, f.actor, doc.ID, document.StatusUpdate{Status: document.StatusPending})
	require.NoError(t, err)
	assert.Len(t, f.mailSvc.SentMessages(), 1)
}

func TestService_Stats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	doc := f.upload(t, "cert.pdf", document.TypeDisabilityCertificate)
	f.upload(t, "photo.png", document.TypePassportPhoto)
	_, err := f.svc.UpdateStatus(ctx, f.actor, doc.ID, document.StatusUpdate{Status: document.StatusRejected})
	require.NoError(t, err)

	stats, err := f.svc.UploaderStats(ctx, f.actor)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Rejected)

	benStats, err := f.svc.BeneficiaryStats(ctx, f.ben.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, benStats.Completion.Completed)
	assert.Equal(t, 7, benStats.Completion.TotalRequired)
	assert.Len(t, benStats.Completion.MissingTypes, 5)

	_, err = f.svc.BeneficiaryStats(ctx, "missing")
	assert.Equal(t, beneficiary.ErrNotFound, err)

	completions, err := f.svc.CompletionByBeneficiary(ctx)
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.Equal(t, f.ben.ID, completions[0].ID)
	assert.Equal(t, 29, completions[0].Percentage)

	count, err := f.svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
