package browser

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/architeacher/docrepo/pkg/cmis"
)

// RepositoryInfo fetches the description of the configured repository.
func (c *Client) RepositoryInfo(ctx context.Context) (cmis.RepositoryInfo, error) {
	var infos map[string]cmis.RepositoryInfo

	params := url.Values{paramSelector: {selectorRepositoryInfo}}
	if err := c.getJSON(ctx, c.repositoryURL, params, &infos); err != nil {
		return cmis.RepositoryInfo{}, err
	}

	if info, ok := infos[c.cfg.RepositoryID]; ok {
		return info, nil
	}

	for _, info := range infos {
		return info, nil
	}

	return cmis.RepositoryInfo{}, fmt.Errorf("%w: repository %s", cmis.ErrObjectNotFound, c.cfg.RepositoryID)
}

func (c *Client) GetObject(ctx context.Context, objectID string) (*cmis.Object, error) {
	params := objectParams(selectorObject)
	params.Set(paramObjectID, objectID)

	var object wireObject
	if err := c.getJSON(ctx, c.rootURL, params, &object); err != nil {
		return nil, err
	}

	return object.object(), nil
}

// GetObjectByPath resolves an absolute repository path. "/" is the root
// folder.
func (c *Client) GetObjectByPath(ctx context.Context, path string) (*cmis.Object, error) {
	target := c.rootURL

	if segments := splitPath(path); len(segments) > 0 {
		joined, err := url.JoinPath(c.rootURL, segments...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cmis.ErrInvalidArgument, err)
		}

		target = joined
	}

	var object wireObject
	if err := c.getJSON(ctx, target, objectParams(selectorObject), &object); err != nil {
		return nil, err
	}

	return object.object(), nil
}

func (c *Client) GetRootFolder(ctx context.Context) (*cmis.Object, error) {
	return c.GetObjectByPath(ctx, "/")
}

// GetChildren lists every child of a folder.
func (c *Client) GetChildren(ctx context.Context, folderID string) ([]*cmis.Object, error) {
	var children []*cmis.Object

	for skip := 0; ; {
		params := objectParams(selectorChildren)
		params.Set(paramObjectID, folderID)
		params.Set(paramMaxItems, strconv.Itoa(c.cfg.MaxItemsPerPage))
		params.Set(paramSkipCount, strconv.Itoa(skip))

		var page wireChildren
		if err := c.getJSON(ctx, c.rootURL, params, &page); err != nil {
			return nil, err
		}

		for _, child := range page.Objects {
			children = append(children, child.Object.object())
		}

		skip += len(page.Objects)

		if !page.HasMoreItems || len(page.Objects) == 0 {
			return children, nil
		}
	}
}

// GetParents returns the folders containing an object.
func (c *Client) GetParents(ctx context.Context, objectID string) ([]*cmis.Object, error) {
	params := objectParams(selectorParents)
	params.Set(paramObjectID, objectID)

	var parents []wireParent
	if err := c.getJSON(ctx, c.rootURL, params, &parents); err != nil {
		return nil, err
	}

	objects := make([]*cmis.Object, 0, len(parents))
	for _, parent := range parents {
		objects = append(objects, parent.Object.object())
	}

	return objects, nil
}

func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (*cmis.Object, error) {
	form := url.Values{
		paramAction:   {actionCreateFolder},
		paramSuccinct: {"false"},
		paramCharset:  {"UTF-8"},
	}
	setProperties(form, cmis.PropertyName, name, cmis.PropertyObjectTypeID, string(cmis.BaseTypeFolder))

	var object wireObject
	err := c.postJSON(ctx, c.rootURL, url.Values{paramObjectID: {parentID}}, contentTypeForm, []byte(form.Encode()), &object)
	if err != nil {
		return nil, err
	}

	return object.object(), nil
}

// CreateDocument uploads content as a new document in a folder.
func (c *Client) CreateDocument(
	ctx context.Context,
	folderID, name, mimeType string,
	content []byte,
) (*cmis.Object, error) {
	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	fields := url.Values{
		paramAction:   {actionCreateDocument},
		paramSuccinct: {"false"},
		paramCharset:  {"UTF-8"},
	}
	setProperties(fields, cmis.PropertyName, name, cmis.PropertyObjectTypeID, string(cmis.BaseTypeDocument))

	for _, key := range orderedFormKeys(fields) {
		if err := writer.WriteField(key, fields.Get(key)); err != nil {
			return nil, fmt.Errorf("%w: %w", cmis.ErrInvalidArgument, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "content",
		"filename": name,
	}))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cmis.ErrInvalidArgument, err)
	}

	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("%w: %w", cmis.ErrInvalidArgument, err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", cmis.ErrInvalidArgument, err)
	}

	var object wireObject
	err = c.postJSON(ctx, c.rootURL, url.Values{paramObjectID: {folderID}}, writer.FormDataContentType(), body.Bytes(), &object)
	if err != nil {
		return nil, err
	}

	return object.object(), nil
}

// DeleteObject removes an object, optionally with all of its versions.
func (c *Client) DeleteObject(ctx context.Context, objectID string, allVersions bool) error {
	form := url.Values{
		paramAction:      {actionDelete},
		paramAllVersions: {strconv.FormatBool(allVersions)},
	}

	return c.postJSON(ctx, c.rootURL, url.Values{paramObjectID: {objectID}}, contentTypeForm, []byte(form.Encode()), nil)
}

// GetContentStream opens the content of a document. The caller closes the
// stream.
func (c *Client) GetContentStream(ctx context.Context, objectID string) (*cmis.ContentStream, error) {
	params := url.Values{
		paramSelector: {selectorContent},
		paramObjectID: {objectID},
	}

	resp, err := c.do(ctx, http.MethodGet, c.rootURL, params, "", nil)
	if err != nil {
		return nil, err
	}

	stream := &cmis.ContentStream{
		MimeType: resp.Header.Get("Content-Type"),
		Length:   resp.ContentLength,
		Stream:   resp.Body,
	}

	if _, disposition, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		stream.FileName = disposition["filename"]
	}

	return stream, nil
}

func objectParams(selector string) url.Values {
	return url.Values{
		paramSelector: {selector},
		paramSuccinct: {"false"},
		paramFilter:   {cmis.PropertyFilterAll},
	}
}

// setProperties writes id/value pairs in the indexed form the binding
// expects.
func setProperties(form url.Values, pairs ...string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		index := strconv.Itoa(i / 2)
		form.Set("propertyId["+index+"]", pairs[i])
		form.Set("propertyValue["+index+"]", pairs[i+1])
	}
}

// orderedFormKeys puts cmisaction first, then the remaining keys sorted.
func orderedFormKeys(form url.Values) []string {
	keys := slices.Sorted(maps.Keys(form))

	if i := slices.Index(keys, paramAction); i > 0 {
		keys = append([]string{paramAction}, slices.Delete(keys, i, i+1)...)
	}

	return keys
}

// splitPath returns the escaped segments of a repository path.
func splitPath(path string) []string {
	segments := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return segments
}
