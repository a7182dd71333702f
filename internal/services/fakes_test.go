package services_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"path"
	"sync"

	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/pkg/cmis"
)

const rootID = "root"

type createdDocument struct {
	FolderID string
	Name     string
	MimeType string
	Content  []byte
}

type fakeRepository struct {
	mu sync.Mutex

	objects  map[string]*cmis.Object
	children map[string][]string
	parents  map[string][]string
	content  map[string][]byte
	nextID   int

	records  []*cmis.Record
	queryErr error

	statements     []string
	createdFolders []string
	created        []createdDocument
	deleted        []string
	deletedAll     []bool

	createFolderErr error
	getChildrenErr  error
}

func newFakeRepository() *fakeRepository {
	repo := &fakeRepository{
		objects:  make(map[string]*cmis.Object),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
		content:  make(map[string][]byte),
	}

	repo.objects[rootID] = folderObject(rootID, "", "/")

	return repo
}

func folderObject(id, name, folderPath string) *cmis.Object {
	return cmis.NewObject(
		cmis.NewProperty(cmis.PropertyObjectID, id),
		cmis.NewProperty(cmis.PropertyName, name),
		cmis.NewProperty(cmis.PropertyBaseTypeID, string(cmis.BaseTypeFolder)),
		cmis.NewProperty(cmis.PropertyObjectTypeID, string(cmis.BaseTypeFolder)),
		cmis.NewProperty(cmis.PropertyPath, folderPath),
	)
}

func documentObject(id, name, mimeType string, length int64) *cmis.Object {
	return cmis.NewObject(
		cmis.NewProperty(cmis.PropertyObjectID, id),
		cmis.NewProperty(cmis.PropertyName, name),
		cmis.NewProperty(cmis.PropertyBaseTypeID, string(cmis.BaseTypeDocument)),
		cmis.NewProperty(cmis.PropertyObjectTypeID, string(cmis.BaseTypeDocument)),
		cmis.NewProperty(cmis.PropertyContentStreamMimeType, mimeType),
		cmis.NewProperty(cmis.PropertyContentStreamLength, length),
	)
}

func notFound(what string) error {
	return cmis.NewRepositoryError(http.StatusNotFound, "objectNotFound", what+" not found")
}

func (r *fakeRepository) addFolder(parentID, name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.addFolderLocked(parentID, name)
}

func (r *fakeRepository) addFolderLocked(parentID, name string) string {
	r.nextID++
	id := fmt.Sprintf("folder-%d", r.nextID)

	parentPath := r.objects[parentID].Path()
	r.objects[id] = folderObject(id, name, path.Join(parentPath, name))
	r.children[parentID] = append(r.children[parentID], id)
	r.parents[id] = []string{parentID}

	return id
}

func (r *fakeRepository) addDocument(folderID, name string, content []byte) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.addDocumentLocked(folderID, name, model.MimeTypeFor(name), content)
}

func (r *fakeRepository) addDocumentLocked(folderID, name, mimeType string, content []byte) string {
	r.nextID++
	id := fmt.Sprintf("doc-%d", r.nextID)

	r.objects[id] = documentObject(id, name, mimeType, int64(len(content)))
	r.content[id] = content
	r.parents[id] = []string{folderID}

	if folderID != "" {
		r.children[folderID] = append(r.children[folderID], id)
	}

	return id
}

func (r *fakeRepository) NewOperationContext() cmis.OperationContext {
	return cmis.NewOperationContext()
}

func (r *fakeRepository) Query(
	_ context.Context,
	statement string,
	_ bool,
	_ cmis.OperationContext,
) iter.Seq2[*cmis.Record, error] {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statements = append(r.statements, statement)

	if r.queryErr != nil {
		return cmis.FailedRows(r.queryErr)
	}

	return cmis.RecordsOf(r.records...)
}

func (r *fakeRepository) RepositoryInfo(_ context.Context) (cmis.RepositoryInfo, error) {
	return cmis.RepositoryInfo{ID: "main", Name: "Main", RootFolderID: rootID}, nil
}

func (r *fakeRepository) GetObject(_ context.Context, objectID string) (*cmis.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	object, ok := r.objects[objectID]
	if !ok {
		return nil, notFound(objectID)
	}

	return object, nil
}

func (r *fakeRepository) GetObjectByPath(_ context.Context, objectPath string) (*cmis.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, object := range r.objects {
		if object.IsFolder() && object.Path() == objectPath {
			return object, nil
		}

		if object.IsDocument() && len(r.parents[id]) > 0 {
			parent := r.objects[r.parents[id][0]]
			if path.Join(parent.Path(), object.Name()) == objectPath {
				return object, nil
			}
		}
	}

	return nil, notFound(objectPath)
}

func (r *fakeRepository) GetRootFolder(_ context.Context) (*cmis.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.objects[rootID], nil
}

func (r *fakeRepository) GetChildren(_ context.Context, folderID string) ([]*cmis.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getChildrenErr != nil {
		return nil, r.getChildrenErr
	}

	children := make([]*cmis.Object, 0, len(r.children[folderID]))
	for _, id := range r.children[folderID] {
		children = append(children, r.objects[id])
	}

	return children, nil
}

func (r *fakeRepository) GetParents(_ context.Context, objectID string) ([]*cmis.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	parents := make([]*cmis.Object, 0)
	for _, id := range r.parents[objectID] {
		if parent, ok := r.objects[id]; ok {
			parents = append(parents, parent)
		}
	}

	return parents, nil
}

func (r *fakeRepository) CreateFolder(_ context.Context, parentID, name string) (*cmis.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createFolderErr != nil {
		return nil, r.createFolderErr
	}

	id := r.addFolderLocked(parentID, name)
	r.createdFolders = append(r.createdFolders, r.objects[id].Path())

	return r.objects[id], nil
}

func (r *fakeRepository) CreateDocument(
	_ context.Context,
	folderID, name, mimeType string,
	content []byte,
) (*cmis.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.addDocumentLocked(folderID, name, mimeType, content)
	r.created = append(r.created, createdDocument{
		FolderID: folderID,
		Name:     name,
		MimeType: mimeType,
		Content:  content,
	})

	return r.objects[id], nil
}

func (r *fakeRepository) DeleteObject(_ context.Context, objectID string, allVersions bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.objects[objectID]; !ok {
		return notFound(objectID)
	}

	delete(r.objects, objectID)
	r.deleted = append(r.deleted, objectID)
	r.deletedAll = append(r.deletedAll, allVersions)

	return nil
}

func (r *fakeRepository) GetContentStream(_ context.Context, objectID string) (*cmis.ContentStream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	content, ok := r.content[objectID]
	if !ok {
		return nil, notFound(objectID)
	}

	return &cmis.ContentStream{
		Length: int64(len(content)),
		Stream: io.NopCloser(bytes.NewReader(content)),
	}, nil
}

type fakeHistory struct {
	mu        sync.Mutex
	records   []*model.QueryRecord
	recordErr error
	recentErr error
}

func (h *fakeHistory) Record(_ context.Context, record *model.QueryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.recordErr != nil {
		return h.recordErr
	}

	h.records = append(h.records, record)

	return nil
}

func (h *fakeHistory) Recent(_ context.Context, limit uint64) ([]*model.QueryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.recentErr != nil {
		return nil, h.recentErr
	}

	records := h.records
	if uint64(len(records)) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (h *fakeHistory) Records() []*model.QueryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]*model.QueryRecord(nil), h.records...)
}
