package ports

import (
	"context"

	"github.com/architeacher/docrepo/pkg/cmis"
)

// DocumentRepository is the object and query surface of a document repository.
type DocumentRepository interface {
	cmis.Session

	RepositoryInfo(ctx context.Context) (cmis.RepositoryInfo, error)
	GetObject(ctx context.Context, objectID string) (*cmis.Object, error)
	GetObjectByPath(ctx context.Context, path string) (*cmis.Object, error)
	GetRootFolder(ctx context.Context) (*cmis.Object, error)
	GetChildren(ctx context.Context, folderID string) ([]*cmis.Object, error)
	GetParents(ctx context.Context, objectID string) ([]*cmis.Object, error)
	CreateFolder(ctx context.Context, parentID, name string) (*cmis.Object, error)
	CreateDocument(ctx context.Context, folderID, name, mimeType string, content []byte) (*cmis.Object, error)
	DeleteObject(ctx context.Context, objectID string, allVersions bool) error
	GetContentStream(ctx context.Context, objectID string) (*cmis.ContentStream, error)
}
