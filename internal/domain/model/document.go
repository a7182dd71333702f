package model

import (
	"time"

	"github.com/architeacher/docrepo/pkg/cmis"
	"github.com/architeacher/docrepo/pkg/cmis/query"
)

type (
	// Document is the repository document as seen by callers of the service.
	Document struct {
		ID              string    `json:"id"                        yaml:"id"`
		Name            string    `json:"name"                      yaml:"name"`
		ObjectType      string    `json:"objectType"                yaml:"objectType"`
		MimeType        string    `json:"mimeType,omitempty"        yaml:"mimeType,omitempty"`
		ContentLength   int64     `json:"contentLength"             yaml:"contentLength"`
		FileName        string    `json:"fileName,omitempty"        yaml:"fileName,omitempty"`
		VersionLabel    string    `json:"versionLabel,omitempty"    yaml:"versionLabel,omitempty"`
		IsLatest        bool      `json:"isLatestVersion"           yaml:"isLatestVersion"`
		CreatedBy       string    `json:"createdBy,omitempty"       yaml:"createdBy,omitempty"`
		CreatedAt       time.Time `json:"createdAt"                 yaml:"createdAt"`
		LastModifiedBy  string    `json:"lastModifiedBy,omitempty"  yaml:"lastModifiedBy,omitempty"`
		LastModifiedAt  time.Time `json:"lastModifiedAt"            yaml:"lastModifiedAt"`
		SecondaryTypes  []string  `json:"secondaryTypes,omitempty"  yaml:"secondaryTypes,omitempty"`
		ParentFolderIDs []string  `json:"parentFolderIds,omitempty" yaml:"parentFolderIds,omitempty"`
	}

	// UploadResult identifies a freshly stored document. Name differs from the
	// requested one when the folder already held a document with that name.
	UploadResult struct {
		DocumentName string `json:"documentName" yaml:"documentName"`
		DocumentID   string `json:"documentId"   yaml:"documentId"`
	}

	DocumentPage = query.Page[Document]
)

const propertySecondaryTypes = "cmis:secondaryObjectTypeIds"

var documentFields = []query.FieldDescriptor[Document]{
	query.Field(cmis.PropertyObjectID, func(d *Document, v string) { d.ID = v }),
	query.Field(cmis.PropertyName, func(d *Document, v string) { d.Name = v }),
	query.Field(cmis.PropertyObjectTypeID, func(d *Document, v string) { d.ObjectType = v }),
	query.Field(cmis.PropertyContentStreamMimeType, func(d *Document, v string) { d.MimeType = v }),
	query.Field(cmis.PropertyContentStreamLength, func(d *Document, v int64) { d.ContentLength = v }),
	query.Field(cmis.PropertyContentStreamFileName, func(d *Document, v string) { d.FileName = v }),
	query.Field(cmis.PropertyVersionLabel, func(d *Document, v string) { d.VersionLabel = v }),
	query.Field(cmis.PropertyIsLatestVersion, func(d *Document, v bool) { d.IsLatest = v }),
	query.Field(cmis.PropertyCreatedBy, func(d *Document, v string) { d.CreatedBy = v }),
	query.Field(cmis.PropertyCreationDate, func(d *Document, v time.Time) { d.CreatedAt = v }),
	query.Field(cmis.PropertyLastModifiedBy, func(d *Document, v string) { d.LastModifiedBy = v }),
	query.Field(cmis.PropertyLastModificationDate, func(d *Document, v time.Time) { d.LastModifiedAt = v }),
	query.List(propertySecondaryTypes, func(d *Document, v []string) { d.SecondaryTypes = v }),
	query.List(cmis.PropertyParentID, func(d *Document, v []string) { d.ParentFolderIDs = v }),
}

// DocumentSchema maps query rows of objectType onto Document.
func DocumentSchema(objectType string) query.Schema[Document] {
	if objectType == "" {
		objectType = string(cmis.BaseTypeDocument)
	}

	return query.NewSchema(objectType, documentFields...)
}

// DocumentFromObject maps a fetched repository object onto Document.
func DocumentFromObject(object *cmis.Object) *Document {
	if object == nil {
		return nil
	}

	document, ok := DocumentSchema("").Map(&object.Record)
	if !ok {
		return nil
	}

	return document
}
