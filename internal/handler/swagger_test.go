package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeOpenAPI3Spec(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/openapi.json", "", uuid.Nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var spec OpenAPI3Spec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, "3.0.3", spec.OpenAPI)
	require.Len(t, spec.Servers, 2)
	assert.Equal(t, "https://huddle.example.com/api/v1", spec.Servers[1].URL)

	messages, ok := spec.Paths["/messages"].(map[string]interface{})
	require.True(t, ok)
	post, ok := messages["post"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, post, "requestBody")
	assert.NotContains(t, post, "parameters")

	schemas, ok := spec.Components["schemas"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, schemas, "handler.CreateMessageRequest")
}

func TestNewDocsHandler_LocalOnly(t *testing.T) {
	h := NewDocsHandler("")
	require.Len(t, h.servers, 1)
	assert.Equal(t, "http://localhost:8080/api/v1", h.servers[0].URL)

	h = NewDocsHandler("https://chat.example.org/")
	assert.Equal(t, "https://chat.example.org/api/v1", h.servers[1].URL)
}

func TestTransformRefs(t *testing.T) {
	in := map[string]interface{}{
		"schema": map[string]interface{}{"$ref": "#/definitions/handler.IDResponse"},
	}
	out := transformRefs(in).(map[string]interface{})
	schema := out["schema"].(map[string]interface{})
	assert.Equal(t, "#/components/schemas/handler.IDResponse", schema["$ref"])
}
