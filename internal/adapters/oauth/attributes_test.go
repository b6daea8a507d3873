package oauth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func githubAttributes() AttributeMap {
	return AttributeMap{ID: "id", Name: "name", Email: "email", Avatar: "avatar_url"}
}

func TestAttributeMap_Apply_GitHubShape(t *testing.T) {
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 583231,
		"name": "Octo Cat",
		"email": "octo@example.com",
		"avatar_url": "https://avatars.example.com/u/583231"
	}`), &doc))

	identity := githubAttributes().Apply(doc)

	assert.Equal(t, "583231", identity.ID, "numeric ids stringify")
	assert.Equal(t, "Octo Cat", identity.Name)
	assert.Equal(t, "octo@example.com", identity.Email)
	assert.Equal(t, "https://avatars.example.com/u/583231", identity.Image)
	assert.Equal(t, "student", identity.Role.Name(), "no role path defaults to student")
}

func TestAttributeMap_Apply_NestedRolePath(t *testing.T) {
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{
		"sub": "u-9",
		"app_metadata": {"role": "teacher"}
	}`), &doc))

	m := AttributeMap{ID: "sub", Role: "app_metadata.role"}
	identity := m.Apply(doc)

	assert.Equal(t, "u-9", identity.ID)
	assert.Equal(t, "teacher", identity.Role.Name())
}

func TestAttributeMap_Apply_MissingFields(t *testing.T) {
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{"sub": "u-1"}`), &doc))

	identity := defaultOIDCAttributes().Apply(doc)
	assert.Equal(t, "u-1", identity.ID)
	assert.Empty(t, identity.Email)
	assert.Empty(t, identity.Image)
}

func TestAttributeMap_Validate(t *testing.T) {
	assert.NoError(t, githubAttributes().Validate())
	assert.NoError(t, AttributeMap{}.Validate())

	bad := AttributeMap{Email: "][invalid"}
	assert.Error(t, bad.Validate())
}
