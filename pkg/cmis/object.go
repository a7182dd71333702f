package cmis

import (
	"io"
	"time"

	"github.com/spf13/cast"
)

// BaseType is the base object type of a repository object.
type BaseType string

const (
	BaseTypeDocument     BaseType = "cmis:document"
	BaseTypeFolder       BaseType = "cmis:folder"
	BaseTypeRelationship BaseType = "cmis:relationship"
	BaseTypePolicy       BaseType = "cmis:policy"
	BaseTypeItem         BaseType = "cmis:item"
)

type (
	// Object is a repository object together with its properties.
	Object struct {
		Record
	}

	// ContentStream is the binary content of a document.
	ContentStream struct {
		FileName string
		MimeType string
		Length   int64
		Stream   io.ReadCloser
	}

	// RepositoryInfo describes a repository.
	RepositoryInfo struct {
		ID             string `json:"repositoryId"`
		Name           string `json:"repositoryName"`
		Description    string `json:"repositoryDescription"`
		VendorName     string `json:"vendorName"`
		ProductName    string `json:"productName"`
		ProductVersion string `json:"productVersion"`
		RootFolderID   string `json:"rootFolderId"`
		RootFolderURL  string `json:"rootFolderUrl"`
		RepositoryURL  string `json:"repositoryUrl"`
		CMISVersion    string `json:"cmisVersionSupported"`
	}
)

// NewObject wraps properties as an object.
func NewObject(properties ...Property) *Object {
	return &Object{Record: Record{Properties: properties}}
}

func (o *Object) ID() string {
	return o.stringOf(PropertyObjectID)
}

func (o *Object) Name() string {
	return o.stringOf(PropertyName)
}

func (o *Object) BaseType() BaseType {
	return BaseType(o.stringOf(PropertyBaseTypeID))
}

func (o *Object) ObjectType() string {
	return o.stringOf(PropertyObjectTypeID)
}

// Path is only set on folders.
func (o *Object) Path() string {
	return o.stringOf(PropertyPath)
}

func (o *Object) ParentID() string {
	return o.stringOf(PropertyParentID)
}

func (o *Object) CreatedBy() string {
	return o.stringOf(PropertyCreatedBy)
}

func (o *Object) CreationDate() time.Time {
	return o.timeOf(PropertyCreationDate)
}

func (o *Object) LastModificationDate() time.Time {
	return o.timeOf(PropertyLastModificationDate)
}

func (o *Object) ContentStreamLength() int64 {
	length, _ := cast.ToInt64E(o.Value(PropertyContentStreamLength))

	return length
}

func (o *Object) ContentStreamMimeType() string {
	return o.stringOf(PropertyContentStreamMimeType)
}

func (o *Object) IsDocument() bool {
	return o.BaseType() == BaseTypeDocument
}

func (o *Object) IsFolder() bool {
	return o.BaseType() == BaseTypeFolder
}

func (o *Object) stringOf(id string) string {
	if o == nil {
		return ""
	}

	value, _ := cast.ToStringE(o.Value(id))

	return value
}

func (o *Object) timeOf(id string) time.Time {
	if o == nil {
		return time.Time{}
	}

	value, _ := cast.ToTimeE(o.Value(id))

	return value
}
