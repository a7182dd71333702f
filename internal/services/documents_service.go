package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/architeacher/docrepo/internal/domain/model"
	"github.com/architeacher/docrepo/internal/ports"
	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/architeacher/docrepo/pkg/cmis/query"
	"github.com/architeacher/docrepo/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize   = query.DefaultPageSize
	defaultObjectType = string(cmis.BaseTypeDocument)
)

type (
	DocumentsService struct {
		repo              ports.DocumentRepository
		history           ports.QueryHistoryRepository
		logger            logger.Logger
		defaultObjectType string
		defaultPageSize   int
		maxPageSize       int
		searchAllVersions bool
		now               func() time.Time
		newID             func() uuid.UUID
	}

	ServiceOption func(*DocumentsService)
)

func WithQueryHistory(history ports.QueryHistoryRepository) ServiceOption {
	return func(s *DocumentsService) {
		s.history = history
	}
}

func WithLogger(log logger.Logger) ServiceOption {
	return func(s *DocumentsService) {
		s.logger = log
	}
}

// WithQueryDefaults sets the object type and page size used when a search
// leaves them out. A maxPageSize of zero disables the upper bound.
func WithQueryDefaults(objectType string, pageSize, maxPageSize int, searchAllVersions bool) ServiceOption {
	return func(s *DocumentsService) {
		if objectType != "" {
			s.defaultObjectType = objectType
		}

		if pageSize > 0 {
			s.defaultPageSize = pageSize
		}

		s.maxPageSize = maxPageSize
		s.searchAllVersions = searchAllVersions
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *DocumentsService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() uuid.UUID) ServiceOption {
	return func(s *DocumentsService) {
		s.newID = newID
	}
}

func NewDocumentsService(repo ports.DocumentRepository, opts ...ServiceOption) *DocumentsService {
	svc := &DocumentsService{
		repo:              repo,
		logger:            logger.Logger{Logger: zerolog.Nop()},
		defaultObjectType: defaultObjectType,
		defaultPageSize:   defaultPageSize,
		searchAllVersions: true,
		now:               time.Now,
		newID:             uuid.New,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func (s *DocumentsService) Upload(ctx context.Context, folderPath, name, base64Content string) (*model.UploadResult, error) {
	validationErrs := model.NewValidationErrors()

	name = strings.TrimSpace(name)
	if name == "" {
		validationErrs.Add("name", "document name is required", "required")
	}

	if strings.ContainsAny(name, `/\`) {
		validationErrs.Add("name", "document name must not contain path separators", "invalid")
	}

	if validationErrs.HasErrors() {
		return nil, validationErrs
	}

	content, err := base64.StdEncoding.DecodeString(strings.TrimSpace(base64Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidContent, err)
	}

	folder, err := s.ensureFolder(ctx, folderPath)
	if err != nil {
		return nil, err
	}

	exists, err := s.documentExists(ctx, folder.ID(), name)
	if err != nil {
		return nil, err
	}

	if exists {
		name = model.UniqueName(name, s.now(), s.newID())
	}

	document, err := s.repo.CreateDocument(ctx, folder.ID(), name, model.MimeTypeFor(name), content)
	if err != nil {
		return nil, fmt.Errorf("storing document %q: %w", name, err)
	}

	return &model.UploadResult{
		DocumentName: name,
		DocumentID:   document.ID(),
	}, nil
}

func (s *DocumentsService) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	object, err := s.fetchDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	return model.DocumentFromObject(object), nil
}

func (s *DocumentsService) DeleteDocument(ctx context.Context, id string) error {
	object, err := s.fetchDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteObject(ctx, object.ID(), true); err != nil {
		return documentError(id, err)
	}

	return nil
}

func (s *DocumentsService) GetDocumentPath(ctx context.Context, id string) (string, error) {
	object, err := s.fetchDocument(ctx, id)
	if err != nil {
		return "", err
	}

	parents, err := s.repo.GetParents(ctx, object.ID())
	if err != nil {
		return "", documentError(id, err)
	}

	if len(parents) == 0 {
		return "", fmt.Errorf("%w: %s", model.ErrNoParentFolder, id)
	}

	return parents[0].Path(), nil
}

func (s *DocumentsService) ListFolder(ctx context.Context, folderPath string) ([]*model.Document, error) {
	if strings.TrimSpace(folderPath) == "" {
		return nil, model.ErrInvalidFolderPath
	}

	path := model.NormalizeFolderPath(folderPath)

	folder, err := s.folderAt(ctx, path)
	if err != nil {
		return nil, err
	}

	children, err := s.repo.GetChildren(ctx, folder.ID())
	if err != nil {
		return nil, fmt.Errorf("listing folder %s: %w", path, err)
	}

	documents := make([]*model.Document, 0, len(children))

	for _, child := range children {
		if !child.IsDocument() {
			continue
		}

		if document := model.DocumentFromObject(child); document != nil {
			documents = append(documents, document)
		}
	}

	return documents, nil
}

func (s *DocumentsService) FindDocuments(
	ctx context.Context,
	objectType string,
	cfg query.Configuration,
) (*model.DocumentPage, error) {
	if objectType == "" {
		objectType = s.defaultObjectType
	}

	if cfg.PageSize == 0 {
		cfg.PageSize = s.defaultPageSize
	}

	if s.maxPageSize > 0 && cfg.PageSize > s.maxPageSize {
		validationErrs := model.NewValidationErrors()
		validationErrs.Add("pageSize", fmt.Sprintf("page size must not exceed %d", s.maxPageSize), "max")

		return nil, validationErrs
	}

	engine := query.NewEngine(
		s.repo,
		model.DocumentSchema(objectType),
		query.WithLogger(s.logger),
		query.WithSearchAllVersions(s.searchAllVersions),
		query.WithObserver(s.recordExecution),
	)

	page, err := engine.Query().Apply(cfg).Execute(ctx)
	if err != nil {
		return nil, err
	}

	return &page, nil
}

func (s *DocumentsService) DownloadDocument(ctx context.Context, id string) (*model.Content, error) {
	object, err := s.fetchDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	stream, err := s.repo.GetContentStream(ctx, object.ID())
	if err != nil {
		return nil, documentError(id, err)
	}

	content := &model.Content{
		FileName: stream.FileName,
		MimeType: stream.MimeType,
		Length:   stream.Length,
		Body:     stream.Stream,
	}

	if content.FileName == "" {
		content.FileName = object.Name()
	}

	if content.MimeType == "" {
		content.MimeType = object.ContentStreamMimeType()
	}

	return content, nil
}

// RecentQueries lists the latest recorded searches, newest first.
func (s *DocumentsService) RecentQueries(ctx context.Context, limit uint64) ([]*model.QueryRecord, error) {
	if s.history == nil {
		return []*model.QueryRecord{}, nil
	}

	records, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrHistoryQuery, err)
	}

	return records, nil
}

// RepositoryInfo pings the repository and describes it.
func (s *DocumentsService) RepositoryInfo(ctx context.Context) (cmis.RepositoryInfo, error) {
	return s.repo.RepositoryInfo(ctx)
}

func (s *DocumentsService) recordExecution(ctx context.Context, execution query.Execution) {
	if s.history == nil {
		return
	}

	record := model.NewQueryRecord(
		execution.Statement,
		execution.ObjectType,
		execution.Page,
		execution.PageSize,
		execution.TotalCount,
		execution.Duration,
		execution.Err,
	)

	if err := s.history.Record(context.WithoutCancel(ctx), record); err != nil {
		log := s.logger.WithContext(ctx)
		log.Warn().
			Err(err).
			Str("statement", execution.Statement).
			Msg("failed to record query history")
	}
}

func (s *DocumentsService) fetchDocument(ctx context.Context, id string) (*cmis.Object, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.ErrInvalidDocumentID
	}

	object, err := s.repo.GetObject(ctx, id)
	if err != nil {
		return nil, documentError(id, err)
	}

	if !object.IsDocument() {
		return nil, fmt.Errorf("%w: %s is a %s", model.ErrNotADocument, id, object.BaseType())
	}

	return object, nil
}

func (s *DocumentsService) folderAt(ctx context.Context, path string) (*cmis.Object, error) {
	var (
		folder *cmis.Object
		err    error
	)

	if path == model.RootPath {
		folder, err = s.repo.GetRootFolder(ctx)
	} else {
		folder, err = s.repo.GetObjectByPath(ctx, path)
	}

	if err != nil {
		if errors.Is(err, cmis.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", model.ErrFolderNotFound, path)
		}

		return nil, fmt.Errorf("resolving folder %s: %w", path, err)
	}

	if !folder.IsFolder() {
		return nil, fmt.Errorf("%w: %s", model.ErrNotAFolder, path)
	}

	return folder, nil
}

// ensureFolder walks folderPath from the root, creating missing folders.
func (s *DocumentsService) ensureFolder(ctx context.Context, folderPath string) (*cmis.Object, error) {
	current, err := s.repo.GetRootFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving root folder: %w", err)
	}

	for _, segment := range model.FolderSegments(folderPath) {
		child, err := s.childFolder(ctx, current.ID(), segment)
		if err != nil {
			return nil, err
		}

		if child == nil {
			child, err = s.repo.CreateFolder(ctx, current.ID(), segment)
			if err != nil {
				return nil, fmt.Errorf("creating folder %q: %w", segment, err)
			}

			log := s.logger.WithContext(ctx)

			log.Debug().
				Str("folder", segment).
				Str("parent_id", current.ID()).
				Msg("created folder")
		}

		current = child
	}

	return current, nil
}

func (s *DocumentsService) childFolder(ctx context.Context, parentID, name string) (*cmis.Object, error) {
	children, err := s.repo.GetChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing folder %s: %w", parentID, err)
	}

	for _, child := range children {
		if child.IsFolder() && child.Name() == name {
			return child, nil
		}
	}

	return nil, nil
}

func (s *DocumentsService) documentExists(ctx context.Context, folderID, name string) (bool, error) {
	children, err := s.repo.GetChildren(ctx, folderID)
	if err != nil {
		return false, fmt.Errorf("listing folder %s: %w", folderID, err)
	}

	for _, child := range children {
		if child.IsDocument() && strings.EqualFold(child.Name(), name) {
			return true, nil
		}
	}

	return false, nil
}

func documentError(id string, err error) error {
	if errors.Is(err, cmis.ErrObjectNotFound) {
		return fmt.Errorf("%w: %s", model.ErrDocumentNotFound, id)
	}

	return fmt.Errorf("document %s: %w", id, err)
}
