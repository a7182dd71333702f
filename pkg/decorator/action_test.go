package decorator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type listFolderQuery struct{}

type genericEnvelope[T any] struct{ Payload T }

func TestActionName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "listFolderQuery", actionName[listFolderQuery]())
	assert.Equal(t, "listFolderQuery", actionName[*listFolderQuery]())
	assert.Equal(t, "string", actionName[string]())
	assert.Contains(t, actionName[genericEnvelope[int]](), "genericEnvelope")
}
