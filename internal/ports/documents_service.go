package ports

import (
	"context"

	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/architeacher/docrepo/pkg/cmis/query"
)

// DocumentsService defines the document operations offered to callers.
type DocumentsService interface {
	// Upload stores base64 content under folderPath, creating missing folders.
	Upload(ctx context.Context, folderPath, name, base64Content string) (*model.UploadResult, error)

	// GetDocument retrieves a document by its ID.
	GetDocument(ctx context.Context, id string) (*model.Document, error)

	// DeleteDocument deletes a document with all of its versions.
	DeleteDocument(ctx context.Context, id string) error

	// GetDocumentPath returns the path of the document's first parent folder.
	GetDocumentPath(ctx context.Context, id string) (string, error)

	// ListFolder returns the documents directly contained in a folder.
	ListFolder(ctx context.Context, folderPath string) ([]*model.Document, error)

	// FindDocuments runs a declarative query and returns the requested page.
	FindDocuments(ctx context.Context, objectType string, cfg query.Configuration) (*model.DocumentPage, error)

	// DownloadDocument opens the content of a document.
	DownloadDocument(ctx context.Context, id string) (*model.Content, error)

	// RecentQueries lists the latest recorded searches, newest first.
	RecentQueries(ctx context.Context, limit uint64) ([]*model.QueryRecord, error)

	// RepositoryInfo describes the connected repository.
	RepositoryInfo(ctx context.Context) (cmis.RepositoryInfo, error)
}
