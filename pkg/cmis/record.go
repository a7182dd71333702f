package cmis

import (
	"strings"
)

// PropertyType is the declared data type of a property.
type PropertyType string

const (
	PropertyTypeString   PropertyType = "string"
	PropertyTypeID       PropertyType = "id"
	PropertyTypeBoolean  PropertyType = "boolean"
	PropertyTypeInteger  PropertyType = "integer"
	PropertyTypeDecimal  PropertyType = "decimal"
	PropertyTypeDateTime PropertyType = "datetime"
	PropertyTypeURI      PropertyType = "uri"
	PropertyTypeHTML     PropertyType = "html"
)

// Well-known property ids.
const (
	PropertyObjectID              = "cmis:objectId"
	PropertyName                  = "cmis:name"
	PropertyBaseTypeID            = "cmis:baseTypeId"
	PropertyObjectTypeID          = "cmis:objectTypeId"
	PropertyPath                  = "cmis:path"
	PropertyParentID              = "cmis:parentId"
	PropertyCreatedBy             = "cmis:createdBy"
	PropertyCreationDate          = "cmis:creationDate"
	PropertyLastModifiedBy        = "cmis:lastModifiedBy"
	PropertyLastModificationDate  = "cmis:lastModificationDate"
	PropertyContentStreamLength   = "cmis:contentStreamLength"
	PropertyContentStreamMimeType = "cmis:contentStreamMimeType"
	PropertyContentStreamFileName = "cmis:contentStreamFileName"
	PropertyVersionLabel          = "cmis:versionLabel"
	PropertyIsLatestVersion       = "cmis:isLatestVersion"
)

type (
	// Property is one named value bag of a result row.
	Property struct {
		ID          string
		LocalName   string
		QueryName   string
		DisplayName string
		Type        PropertyType
		Values      []any
	}

	// Record is a single query result row.
	Record struct {
		Properties []Property
	}
)

// NewProperty builds a property whose names all equal id.
func NewProperty(id string, values ...any) Property {
	return Property{
		ID:          id,
		LocalName:   id,
		QueryName:   id,
		DisplayName: id,
		Values:      values,
	}
}

// NewRecord builds a record from properties.
func NewRecord(properties ...Property) *Record {
	return &Record{Properties: properties}
}

// Matches reports whether name equals the local, query or display name of
// the property, ignoring case.
func (p Property) Matches(name string) bool {
	return strings.EqualFold(p.LocalName, name) ||
		strings.EqualFold(p.QueryName, name) ||
		strings.EqualFold(p.DisplayName, name)
}

// IsMultiValued reports whether the property carries more than one value.
func (p Property) IsMultiValued() bool {
	return len(p.Values) > 1
}

// FirstValue returns the first value or nil.
func (p Property) FirstValue() any {
	if len(p.Values) == 0 {
		return nil
	}

	return p.Values[0]
}

// Lookup returns the first property matching name.
func (r *Record) Lookup(name string) (Property, bool) {
	if r == nil {
		return Property{}, false
	}

	for _, property := range r.Properties {
		if property.Matches(name) {
			return property, true
		}
	}

	return Property{}, false
}

// Value returns the first value of the property matching name.
func (r *Record) Value(name string) any {
	property, ok := r.Lookup(name)
	if !ok {
		return nil
	}

	return property.FirstValue()
}

// QueryNames returns the query names of the record's properties in order.
func (r *Record) QueryNames() []string {
	if r == nil {
		return nil
	}

	names := make([]string, 0, len(r.Properties))
	for _, property := range r.Properties {
		names = append(names, property.QueryName)
	}

	return names
}
