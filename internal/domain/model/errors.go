package model

import "errors"

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrFolderNotFound    = errors.New("folder not found")
	ErrNotADocument      = errors.New("object is not a document")
	ErrNotAFolder        = errors.New("object is not a folder")
	ErrInvalidContent    = errors.New("content is not valid base64")
	ErrInvalidFolderPath = errors.New("folder path must not be empty")
	ErrInvalidDocumentID = errors.New("invalid document ID")
	ErrNoParentFolder    = errors.New("document has no parent folder")
	ErrHistoryQuery      = errors.New("query history error")
)

type ValidationError struct {
	Field   string
	Message string
	Code    string
}

type ValidationErrors struct {
	Errors []ValidationError
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}

	return v.Errors[0].Message
}

func (v *ValidationErrors) Add(field, message, code string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	})
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]ValidationError, 0),
	}
}
