package commands_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/internal/infrastructure"
	"github.com/architeacher/docrepo/internal/ports"
	"github.com/architeacher/docrepo/internal/usecases/commands"
	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/architeacher/docrepo/pkg/cmis/query"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/architeacher/docrepo/pkg/metrics/noop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDocumentsService struct {
	ports.DocumentsService

	uploadErr error
	deleteErr error
	uploaded  []commands.UploadDocumentCommand
	deleted   []string
}

func (m *mockDocumentsService) Upload(_ context.Context, folderPath, name, content string) (*model.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}

	m.uploaded = append(m.uploaded, commands.UploadDocumentCommand{FolderPath: folderPath, Name: name, Content: content})

	return &model.UploadResult{DocumentName: name, DocumentID: "doc-1"}, nil
}

func (m *mockDocumentsService) DeleteDocument(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}

	m.deleted = append(m.deleted, id)

	return nil
}

type countingPageCache struct {
	purges   int
	pages    int64
	purgeErr error
}

func (c *countingPageCache) GetPage(context.Context, string, query.Configuration) (*model.DocumentPage, bool, error) {
	return nil, false, nil
}

func (c *countingPageCache) SetPage(context.Context, string, query.Configuration, *model.DocumentPage, time.Duration) error {
	return nil
}

func (c *countingPageCache) Purge(_ context.Context) (int64, error) {
	c.purges++

	if c.purgeErr != nil {
		return 0, c.purgeErr
	}

	purged := c.pages
	c.pages = 0

	return purged, nil
}

func TestUploadDocumentCommandHandler(t *testing.T) {
	t.Parallel()

	content := base64.StdEncoding.EncodeToString([]byte("%PDF-1.7"))

	cases := []struct {
		name           string
		uploadErr      error
		purgeErr       error
		expectedErr    error
		expectedPurges int
	}{
		{
			name:           "stores document and drops cached pages",
			expectedPurges: 1,
		},
		{
			name:           "cache failure does not fail the upload",
			purgeErr:       errors.New("connection reset"),
			expectedPurges: 1,
		},
		{
			name:           "rejected upload keeps cached pages",
			uploadErr:      model.ErrInvalidContent,
			expectedErr:    model.ErrInvalidContent,
			expectedPurges: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockDocumentsService{uploadErr: tc.uploadErr}
			cache := &countingPageCache{pages: 3, purgeErr: tc.purgeErr}

			handler := commands.NewUploadDocumentCommandHandler(
				svc,
				cache,
				logger.NewTestLogger(),
				noop.NewMetricsClient(),
				infrastructure.NewNoopTracerProvider(),
			)

			result, err := handler.Handle(context.Background(), commands.UploadDocumentCommand{
				FolderPath: "/invoices/2026",
				Name:       "march.pdf",
				Content:    content,
			})

			assert.Equal(t, tc.expectedPurges, cache.purges)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "march.pdf", result.DocumentName)
			assert.Equal(t, "doc-1", result.DocumentID)
			require.Len(t, svc.uploaded, 1)
			assert.Equal(t, "/invoices/2026", svc.uploaded[0].FolderPath)
		})
	}
}

func TestUploadDocumentCommandHandler_WithoutCache(t *testing.T) {
	t.Parallel()

	handler := commands.NewUploadDocumentCommandHandler(
		&mockDocumentsService{},
		nil,
		logger.NewTestLogger(),
		noop.NewMetricsClient(),
		infrastructure.NewNoopTracerProvider(),
	)

	_, err := handler.Handle(context.Background(), commands.UploadDocumentCommand{Name: "a.txt", Content: "aGk="})
	require.NoError(t, err)
}

func TestDeleteDocumentCommandHandler(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		deleteErr      error
		expectedPurges int
	}{
		{name: "deletes and drops cached pages", expectedPurges: 1},
		{name: "missing document", deleteErr: model.ErrDocumentNotFound, expectedPurges: 0},
		{name: "repository failure", deleteErr: cmis.ErrConnection, expectedPurges: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockDocumentsService{deleteErr: tc.deleteErr}
			cache := &countingPageCache{}

			handler := commands.NewDeleteDocumentCommandHandler(
				svc,
				cache,
				logger.NewTestLogger(),
				noop.NewMetricsClient(),
				infrastructure.NewNoopTracerProvider(),
			)

			_, err := handler.Handle(context.Background(), commands.DeleteDocumentCommand{ID: "doc-7"})

			assert.Equal(t, tc.expectedPurges, cache.purges)

			if tc.deleteErr != nil {
				require.ErrorIs(t, err, tc.deleteErr)
				assert.Empty(t, svc.deleted)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, []string{"doc-7"}, svc.deleted)
		})
	}
}

func TestPurgePageCacheCommandHandler(t *testing.T) {
	t.Parallel()

	t.Run("reports purged pages", func(t *testing.T) {
		t.Parallel()

		cache := &countingPageCache{pages: 4}

		handler := commands.NewPurgePageCacheCommandHandler(
			cache,
			logger.NewTestLogger(),
			noop.NewMetricsClient(),
			infrastructure.NewNoopTracerProvider(),
		)

		purged, err := handler.Handle(context.Background(), commands.PurgePageCacheCommand{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), purged)
	})

	t.Run("surfaces cache failures", func(t *testing.T) {
		t.Parallel()

		handler := commands.NewPurgePageCacheCommandHandler(
			&countingPageCache{purgeErr: errors.New("NOAUTH")},
			logger.NewTestLogger(),
			noop.NewMetricsClient(),
			infrastructure.NewNoopTracerProvider(),
		)

		_, err := handler.Handle(context.Background(), commands.PurgePageCacheCommand{})
		require.ErrorContains(t, err, "NOAUTH")
	})

	t.Run("disabled cache purges nothing", func(t *testing.T) {
		t.Parallel()

		handler := commands.NewPurgePageCacheCommandHandler(
			nil,
			logger.NewTestLogger(),
			noop.NewMetricsClient(),
			infrastructure.NewNoopTracerProvider(),
		)

		purged, err := handler.Handle(context.Background(), commands.PurgePageCacheCommand{})
		require.NoError(t, err)
		assert.Zero(t, purged)
	})
}
