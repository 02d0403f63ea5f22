package plan

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/egg/crudgen/internal/catalog"
	"go.eggybyte.com/egg/crudgen/internal/core/errors"
	"go.eggybyte.com/egg/crudgen/internal/naming"
)

func mustName(t *testing.T, raw string) naming.Name {
	t.Helper()
	n, err := naming.Normalize(raw)
	require.NoError(t, err)
	return n
}

func fileByPath(p *Plan, filePath string) (File, bool) {
	for _, f := range p.Files {
		if f.Path == filePath {
			return f, true
		}
	}
	return File{}, false
}

func TestBuild_MinimalUser(t *testing.T) {
	p, err := Build(mustName(t, "User"), catalog.StyleMinimal)
	require.NoError(t, err)

	assert.Equal(t, catalog.StyleMinimal, p.Style)
	assert.Equal(t, "Express", p.Framework)
	assert.Equal(t, []string{
		"src/config/db.js",
		"src/app.js",
		"src/server.js",
		"src/models/user.model.js",
		"src/controllers/user.controller.js",
		"src/routes/user.routes.js",
	}, p.Paths())
	assert.Equal(t, []string{"src", "src/config", "src/models", "src/controllers", "src/routes"}, p.Dirs)

	app, ok := fileByPath(p, "src/app.js")
	require.True(t, ok)
	assert.Contains(t, app.Content, `app.use("/api/users", require("./routes/user.routes"));`)

	controller, ok := fileByPath(p, "src/controllers/user.controller.js")
	require.True(t, ok)
	assert.Contains(t, controller.Content, `const User = require("../models/user.model");`)
	assert.Contains(t, controller.Content, "exports.getUserById = async (req, res) => {")

	model, ok := fileByPath(p, "src/models/user.model.js")
	require.True(t, ok)
	assert.Contains(t, model.Content, `module.exports = mongoose.model("User", UserSchema);`)
}

func TestBuild_ModularInvoice(t *testing.T) {
	p, err := Build(mustName(t, "invoice"), catalog.StyleModular)
	require.NoError(t, err)

	assert.Equal(t, "NestJS", p.Framework)
	assert.Equal(t, []string{
		"src/invoice/dto/create-invoice.dto.ts",
		"src/invoice/invoice.model.ts",
		"src/invoice/invoice.service.ts",
		"src/invoice/invoice.controller.ts",
		"src/invoice/invoice.module.ts",
		"src/config/mongoose.config.ts",
		"src/app.module.ts",
		"src/main.ts",
	}, p.Paths())
	assert.Equal(t, []string{"src", "src/config", "src/invoice", "src/invoice/dto"}, p.Dirs)

	controller, ok := fileByPath(p, "src/invoice/invoice.controller.ts")
	require.True(t, ok)
	assert.Contains(t, controller.Content, "@Controller('invoices')")
	assert.Contains(t, controller.Content, "constructor(private readonly invoiceService: InvoiceService) {}")

	service, ok := fileByPath(p, "src/invoice/invoice.service.ts")
	require.True(t, ok)
	assert.Contains(t, service.Content, "return `Get Invoice ${id}`;")

	appModule, ok := fileByPath(p, "src/app.module.ts")
	require.True(t, ok)
	assert.Contains(t, appModule.Content, "import { InvoiceModule } from './invoice/invoice.module';")
}

func TestBuild_Deterministic(t *testing.T) {
	for _, style := range []catalog.Style{catalog.StyleMinimal, catalog.StyleModular} {
		for _, raw := range []string{"User", "invoice", "orderItem", "x"} {
			first, err := Build(mustName(t, raw), style)
			require.NoError(t, err)
			second, err := Build(mustName(t, raw), style)
			require.NoError(t, err)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("%s/%s plan mismatch (-first +second):\n%s", style, raw, diff)
			}
		}
	}
}

func TestBuild_NoUnresolvedMarkers(t *testing.T) {
	for _, style := range []catalog.Style{catalog.StyleMinimal, catalog.StyleModular} {
		for _, raw := range []string{"User", "invoice", "Product"} {
			p, err := Build(mustName(t, raw), style)
			require.NoError(t, err)

			for _, f := range p.Files {
				for _, text := range []string{f.Path, f.Content} {
					assert.NotContains(t, text, "{{", "%s %s", style, f.Path)
					assert.NotContains(t, text, "}}", "%s %s", style, f.Path)
				}
			}
		}
	}
}

func TestBuild_ParentsDeclaredBeforeFiles(t *testing.T) {
	for _, style := range []catalog.Style{catalog.StyleMinimal, catalog.StyleModular} {
		p, err := Build(mustName(t, "account"), style)
		require.NoError(t, err)

		index := make(map[string]int, len(p.Dirs))
		for i, d := range p.Dirs {
			index[d] = i
			if parent := path.Dir(d); parent != "." {
				pi, ok := index[parent]
				require.True(t, ok, "parent %s of %s not listed first", parent, d)
				assert.Less(t, pi, i)
			}
		}
		for _, f := range p.Files {
			_, ok := index[path.Dir(f.Path)]
			assert.True(t, ok, "%s: parent of %s missing", style, f.Path)
		}
	}
}

func TestBuild_StyleExclusivity(t *testing.T) {
	name := mustName(t, "invoice")

	minimal, err := Build(name, catalog.StyleMinimal)
	require.NoError(t, err)
	for _, p := range append(minimal.Paths(), minimal.Dirs...) {
		assert.NotContains(t, p, "/dto")
		assert.False(t, strings.HasPrefix(p, "src/invoice"), p)
	}

	modular, err := Build(name, catalog.StyleModular)
	require.NoError(t, err)
	for _, p := range append(modular.Paths(), modular.Dirs...) {
		for _, dir := range []string{"src/models", "src/controllers", "src/routes"} {
			assert.False(t, strings.HasPrefix(p, dir), p)
		}
	}
}

func TestBuild_UnknownStyle(t *testing.T) {
	_, err := Build(mustName(t, "user"), catalog.Style("other"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))
}

func TestRender_CustomCatalog(t *testing.T) {
	cat := &catalog.Catalog{
		Style:      "test",
		Framework:  "Test",
		SharedDirs: []string{"out/shared"},
		Entries: []catalog.Entry{
			{Name: "a", Path: "out/{{.Lower}}/deep/a.txt", Template: "a.tmpl", Body: "{{.Pascal}}/{{.Plural}}"},
		},
	}

	p, err := Render(cat, mustName(t, "Cat"))
	require.NoError(t, err)

	assert.Equal(t, []string{"out", "out/shared", "out/cat", "out/cat/deep"}, p.Dirs)
	assert.Equal(t, []File{{Path: "out/cat/deep/a.txt", Content: "Cat/cats"}}, p.Files)
}

func TestRender_RejectsUnknownPlaceholder(t *testing.T) {
	cat := &catalog.Catalog{
		Style:     "test",
		Framework: "Test",
		Entries: []catalog.Entry{
			{Name: "a", Path: "a.txt", Template: "a.tmpl", Body: "{{.Snake}}"},
		},
	}

	_, err := Render(cat, mustName(t, "Cat"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInternal))
}

func TestSubstitute(t *testing.T) {
	got, err := Substitute("label", "create-{{.Lower}}.dto.ts", mustName(t, "Invoice"))
	require.NoError(t, err)
	assert.Equal(t, "create-invoice.dto.ts", got)
}

func TestBuild_MatchesGoldenFiles(t *testing.T) {
	cases := []struct {
		style catalog.Style
		name  string
	}{
		{catalog.StyleMinimal, "User"},
		{catalog.StyleModular, "invoice"},
	}

	for _, tc := range cases {
		t.Run(tc.style.String(), func(t *testing.T) {
			p, err := Build(mustName(t, tc.name), tc.style)
			require.NoError(t, err)

			for _, f := range p.Files {
				golden := filepath.Join("testdata", "golden", tc.style.String(), filepath.FromSlash(f.Path)+".golden")
				want, err := os.ReadFile(golden)
				require.NoError(t, err, "missing golden file for %s", f.Path)
				if diff := cmp.Diff(string(want), f.Content); diff != "" {
					t.Errorf("%s differs from golden (-want +got):\n%s", f.Path, diff)
				}
			}
		})
	}
}
