package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/tienda-pos/docs"
)

func TestSwagger_Registrado(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Contains(t, parsed.Paths, "/api/items/{id}/adjust_stock")
	assert.Contains(t, parsed.Paths, "/api/pos/drafts/{id}/commit")
	draft, ok := parsed.Paths["/api/pos/drafts/{id}"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, draft, "delete")
}
