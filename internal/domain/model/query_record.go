package model

import (
	"time"

	"github.com/google/uuid"
)

// QueryRecord is one entry of the query history.
type QueryRecord struct {
	ID         uuid.UUID     `json:"id"                yaml:"id"`
	Statement  string        `json:"statement"         yaml:"statement"`
	ObjectType string        `json:"objectType"        yaml:"objectType"`
	Page       int           `json:"page"              yaml:"page"`
	PageSize   int           `json:"pageSize"          yaml:"pageSize"`
	TotalCount int           `json:"totalCount"        yaml:"totalCount"`
	Duration   time.Duration `json:"duration"          yaml:"duration"`
	Error      string        `json:"error,omitempty"   yaml:"error,omitempty"`
	ExecutedAt time.Time     `json:"executedAt"        yaml:"executedAt"`
}

func NewQueryRecord(statement, objectType string, page, pageSize, totalCount int, duration time.Duration, err error) *QueryRecord {
	record := &QueryRecord{
		ID:         uuid.New(),
		Statement:  statement,
		ObjectType: objectType,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		Duration:   duration,
		ExecutedAt: time.Now().UTC(),
	}

	if err != nil {
		record.Error = err.Error()
	}

	return record
}

// Failed reports whether the recorded execution returned an error.
func (r *QueryRecord) Failed() bool {
	return r.Error != ""
}
