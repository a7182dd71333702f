package services_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/internal/services"
	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/architeacher/docrepo/pkg/cmis/query"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	fixedID  = uuid.MustParse("c0ffee00-1111-4222-8333-444455556666")
)

func newService(repo *fakeRepository, opts ...services.ServiceOption) *services.DocumentsService {
	defaults := []services.ServiceOption{
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithIDGenerator(func() uuid.UUID { return fixedID }),
	}

	return services.NewDocumentsService(repo, append(defaults, opts...)...)
}

func encode(content string) string {
	return base64.StdEncoding.EncodeToString([]byte(content))
}

func TestDocumentsService_Upload(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name            string
		setup           func(repo *fakeRepository)
		folderPath      string
		documentName    string
		content         string
		expectedName    string
		expectedFolders []string
		expectedMime    string
		expectedErr     error
		expectedValid   bool
	}{
		{
			name:            "creates missing folders",
			folderPath:      "/Invoices/2026",
			documentName:    "january.pdf",
			content:         encode("%PDF-1.7"),
			expectedName:    "january.pdf",
			expectedFolders: []string{"/Invoices", "/Invoices/2026"},
			expectedMime:    "application/pdf",
		},
		{
			name: "reuses existing folders with either separator",
			setup: func(repo *fakeRepository) {
				invoices := repo.addFolder(rootID, "Invoices")
				repo.addFolder(invoices, "2026")
			},
			folderPath:   `Invoices\2026\`,
			documentName: "notes.txt",
			content:      encode("hello"),
			expectedName: "notes.txt",
			expectedMime: "text/plain",
		},
		{
			name:         "empty folder path stores in the root",
			folderPath:   "",
			documentName: "data.bin",
			content:      encode("\x00\x01"),
			expectedName: "data.bin",
			expectedMime: "application/octet-stream",
		},
		{
			name: "duplicate name gets a unique prefix",
			setup: func(repo *fakeRepository) {
				repo.addDocument(rootID, "Report.PDF", []byte("old"))
			},
			folderPath:   "/",
			documentName: "report.pdf",
			content:      encode("new"),
			expectedName: model.UniqueName("report.pdf", fixedNow, fixedID),
			expectedMime: "application/pdf",
		},
		{
			name:         "invalid base64",
			folderPath:   "/",
			documentName: "report.pdf",
			content:      "not base64!",
			expectedErr:  model.ErrInvalidContent,
		},
		{
			name:          "missing document name",
			folderPath:    "/",
			documentName:  "  ",
			content:       encode("x"),
			expectedValid: true,
		},
		{
			name:          "document name with separators",
			folderPath:    "/",
			documentName:  "a/b.txt",
			content:       encode("x"),
			expectedValid: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeRepository()
			if tc.setup != nil {
				tc.setup(repo)
			}

			result, err := newService(repo).Upload(context.Background(), tc.folderPath, tc.documentName, tc.content)

			if tc.expectedValid {
				var validationErrs *model.ValidationErrors
				require.ErrorAs(t, err, &validationErrs)
				require.Equal(t, "name", validationErrs.Errors[0].Field)
				require.Empty(t, repo.created)

				return
			}

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.Empty(t, repo.created)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expectedName, result.DocumentName)
			require.NotEmpty(t, result.DocumentID)

			require.Len(t, repo.created, 1)
			require.Equal(t, tc.expectedName, repo.created[0].Name)
			require.Equal(t, tc.expectedMime, repo.created[0].MimeType)

			decoded, _ := base64.StdEncoding.DecodeString(tc.content)
			require.Equal(t, decoded, repo.created[0].Content)
			require.Equal(t, tc.expectedFolders, repo.createdFolders)
		})
	}
}

func TestDocumentsService_UploadFolderCreationFails(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	repo.createFolderErr = cmis.NewRepositoryError(409, "nameConstraintViolation", "exists")

	_, err := newService(repo).Upload(context.Background(), "/A", "x.txt", encode("x"))

	require.ErrorIs(t, err, cmis.ErrNameConstraint)
	require.Contains(t, err.Error(), `creating folder "A"`)
	require.Empty(t, repo.created)
}

func TestDocumentsService_GetDocument(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	folderID := repo.addFolder(rootID, "Contracts")
	documentID := repo.addDocument(folderID, "lease.docx", []byte("lease"))

	svc := newService(repo)

	document, err := svc.GetDocument(context.Background(), documentID)
	require.NoError(t, err)
	require.Equal(t, documentID, document.ID)
	require.Equal(t, "lease.docx", document.Name)
	require.Equal(t, int64(5), document.ContentLength)

	_, err = svc.GetDocument(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrDocumentNotFound)

	_, err = svc.GetDocument(context.Background(), folderID)
	require.ErrorIs(t, err, model.ErrNotADocument)

	_, err = svc.GetDocument(context.Background(), " ")
	require.ErrorIs(t, err, model.ErrInvalidDocumentID)
}

func TestDocumentsService_DeleteDocument(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	documentID := repo.addDocument(rootID, "old.txt", []byte("x"))

	svc := newService(repo)

	require.NoError(t, svc.DeleteDocument(context.Background(), documentID))
	require.Equal(t, []string{documentID}, repo.deleted)
	require.Equal(t, []bool{true}, repo.deletedAll)

	err := svc.DeleteDocument(context.Background(), documentID)
	require.ErrorIs(t, err, model.ErrDocumentNotFound)
}

func TestDocumentsService_GetDocumentPath(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	hr := repo.addFolder(rootID, "HR")
	payroll := repo.addFolder(hr, "Payroll")
	documentID := repo.addDocument(payroll, "march.xlsx", []byte("x"))
	orphanID := repo.addDocument("", "orphan.txt", []byte("x"))

	svc := newService(repo)

	documentPath, err := svc.GetDocumentPath(context.Background(), documentID)
	require.NoError(t, err)
	require.Equal(t, "/HR/Payroll", documentPath)

	_, err = svc.GetDocumentPath(context.Background(), orphanID)
	require.ErrorIs(t, err, model.ErrNoParentFolder)
}

func TestDocumentsService_ListFolder(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	invoices := repo.addFolder(rootID, "Invoices")
	repo.addFolder(invoices, "Archive")
	first := repo.addDocument(invoices, "a.pdf", []byte("a"))
	second := repo.addDocument(invoices, "b.pdf", []byte("b"))
	rootDocument := repo.addDocument(rootID, "readme.txt", []byte("r"))

	svc := newService(repo)

	cases := []struct {
		name        string
		folderPath  string
		expectedIDs []string
		expectedErr error
	}{
		{name: "relative path is made absolute", folderPath: " Invoices ", expectedIDs: []string{first, second}},
		{name: "absolute path", folderPath: "/Invoices", expectedIDs: []string{first, second}},
		{name: "root", folderPath: "/", expectedIDs: []string{rootDocument}},
		{name: "separators only resolve to root", folderPath: `\`, expectedIDs: []string{rootDocument}},
		{name: "empty folder", folderPath: "/Invoices/Archive", expectedIDs: []string{}},
		{name: "blank path", folderPath: "  ", expectedErr: model.ErrInvalidFolderPath},
		{name: "missing folder", folderPath: "/Nope", expectedErr: model.ErrFolderNotFound},
		{name: "document path", folderPath: "/Invoices/a.pdf", expectedErr: model.ErrNotAFolder},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			documents, err := svc.ListFolder(context.Background(), tc.folderPath)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)

				return
			}

			require.NoError(t, err)

			ids := make([]string, 0, len(documents))
			for _, document := range documents {
				ids = append(ids, document.ID)
			}

			require.Equal(t, tc.expectedIDs, ids)
		})
	}
}

func TestDocumentsService_FindDocuments(t *testing.T) {
	t.Parallel()

	records := make([]*cmis.Record, 0, 5)
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"} {
		records = append(records, cmis.NewRecord(
			cmis.NewProperty(cmis.PropertyObjectID, "id-"+name),
			cmis.NewProperty(cmis.PropertyName, name),
		))
	}

	repo := newFakeRepository()
	repo.records = records

	history := &fakeHistory{}
	svc := newService(repo,
		services.WithQueryHistory(history),
		services.WithQueryDefaults("", 2, 50, true),
	)

	page, err := svc.FindDocuments(context.Background(), "", query.Configuration{
		Page:    2,
		Filters: []query.Filter{{PropertyName: "cmis:name", Operator: "like", Value: "%.pdf"}},
		OrderBy: []query.OrderBy{{PropertyName: "cmis:name", Descending: true}},
	})
	require.NoError(t, err)

	require.Equal(t, 5, page.TotalCount)
	require.Equal(t, 2, page.PageSize)
	require.Equal(t, 2, page.PageNumber)
	require.Len(t, page.Data, 2)
	require.Equal(t, "c.pdf", page.Data[0].Name)
	require.Equal(t, "d.pdf", page.Data[1].Name)

	require.Equal(t,
		[]string{"SELECT * FROM cmis:document WHERE cmis:name LIKE '%.pdf' ORDER BY cmis:name DESC"},
		repo.statements,
	)

	recorded := history.Records()
	require.Len(t, recorded, 1)
	require.Equal(t, repo.statements[0], recorded[0].Statement)
	require.Equal(t, "cmis:document", recorded[0].ObjectType)
	require.Equal(t, 5, recorded[0].TotalCount)
	require.False(t, recorded[0].Failed())
}

func TestDocumentsService_FindDocumentsFailures(t *testing.T) {
	t.Parallel()

	t.Run("repository failure is recorded", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepository()
		repo.queryErr = cmis.ErrConnection

		history := &fakeHistory{}
		svc := newService(repo, services.WithQueryHistory(history))

		_, err := svc.FindDocuments(context.Background(), "Invoice", query.Configuration{})
		require.ErrorIs(t, err, query.ErrQueryExecution)
		require.ErrorIs(t, err, cmis.ErrConnection)

		recorded := history.Records()
		require.Len(t, recorded, 1)
		require.True(t, recorded[0].Failed())
		require.Equal(t, "Invoice", recorded[0].ObjectType)
	})

	t.Run("history failure does not fail the search", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepository()
		repo.records = []*cmis.Record{cmis.NewRecord(cmis.NewProperty(cmis.PropertyName, "a.pdf"))}

		var buf bytes.Buffer
		svc := newService(repo,
			services.WithQueryHistory(&fakeHistory{recordErr: errors.New("disk full")}),
			services.WithLogger(logger.NewBufferedTestLogger(&buf)),
		)

		page, err := svc.FindDocuments(context.Background(), "", query.Configuration{})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		require.Contains(t, buf.String(), "failed to record query history")
	})

	t.Run("page size above the limit", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepository()
		svc := newService(repo, services.WithQueryDefaults("", 10, 20, true))

		_, err := svc.FindDocuments(context.Background(), "", query.Configuration{PageSize: 21})

		var validationErrs *model.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		require.Equal(t, "pageSize", validationErrs.Errors[0].Field)
		require.Empty(t, repo.statements)
	})

	t.Run("invalid page is rejected before querying", func(t *testing.T) {
		t.Parallel()

		repo := newFakeRepository()

		_, err := newService(repo).FindDocuments(context.Background(), "", query.Configuration{Page: -1})
		require.ErrorIs(t, err, query.ErrInvalidArgument)
		require.Empty(t, repo.statements)
	})
}

func TestDocumentsService_DownloadDocument(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	documentID := repo.addDocument(rootID, "photo.png", []byte("PNG"))

	content, err := newService(repo).DownloadDocument(context.Background(), documentID)
	require.NoError(t, err)
	defer content.Body.Close()

	body, err := io.ReadAll(content.Body)
	require.NoError(t, err)

	require.Equal(t, []byte("PNG"), body)
	require.Equal(t, "photo.png", content.FileName)
	require.Equal(t, "image/png", content.MimeType)
	require.Equal(t, int64(3), content.Length)
}

func TestDocumentsService_RecentQueries(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()

	records, err := newService(repo).RecentQueries(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, records)

	_, err = newService(repo, services.WithQueryHistory(&fakeHistory{recentErr: errors.New("down")})).
		RecentQueries(context.Background(), 10)
	require.ErrorIs(t, err, model.ErrHistoryQuery)
}
