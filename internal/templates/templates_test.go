package templates

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/egg/crudgen/internal/core/errors"
)

type values struct {
	Lower  string
	Pascal string
}

func TestEmbeddedTemplates(t *testing.T) {
	loader := NewLoader()

	list, err := loader.ListTemplates()
	require.NoError(t, err)
	assert.Len(t, list, 14)
	assert.Contains(t, list, "minimal/controller.js.tmpl")
	assert.Contains(t, list, "modular/create.dto.ts.tmpl")

	manifest, err := loader.Manifest()
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "catalogs:")
}

func TestLoadTemplate(t *testing.T) {
	loader := NewLoader()

	body, err := loader.LoadTemplate("minimal/app.js.tmpl")
	require.NoError(t, err)
	assert.Contains(t, body, `app.use("/api/{{.Plural}}"`)

	_, err = loader.LoadTemplate("minimal/missing.tmpl")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInternal))
}

func TestLoaderFS(t *testing.T) {
	loader := NewLoaderFS(fstest.MapFS{
		"catalog.yaml":   {Data: []byte("catalogs: []\n")},
		"a/one.txt.tmpl": {Data: []byte("{{.Lower}}")},
		"a/notes.md":     {Data: []byte("ignored")},
	})

	list, err := loader.ListTemplates()
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one.txt.tmpl"}, list)

	manifest, err := loader.Manifest()
	require.NoError(t, err)
	assert.Equal(t, "catalogs: []\n", string(manifest))
}

func TestRender(t *testing.T) {
	got, err := Render("model", "const {{.Pascal}} = require('./{{.Lower}}');", values{Lower: "user", Pascal: "User"})
	require.NoError(t, err)
	assert.Equal(t, "const User = require('./user');", got)
}

func TestRender_LeavesForeignSyntaxAlone(t *testing.T) {
	text := "return `Get {{.Pascal}} ${id}`;\nexport class AppModule {}\n"
	got, err := Render("service", text, values{Pascal: "Invoice"})
	require.NoError(t, err)
	assert.Equal(t, "return `Get Invoice ${id}`;\nexport class AppModule {}\n", got)
}

func TestRender_UnknownPlaceholder(t *testing.T) {
	_, err := Render("bad", "{{.Snake}}", values{Lower: "user"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInternal))

	_, err = Render("broken", "{{.Lower", values{Lower: "user"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInternal))
}
