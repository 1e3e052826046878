package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/go-dyntag/cmd/dyntag/config"
)

const testCatalog = `
tags:
  - group: post
    key: title
    label: Post Title
  - group: post
    key: date
    label: Post Date
modifiers:
  - key: truncate
    label: Truncate
    args:
      - label: length
        type: number
  - key: upper
    label: Uppercase
`

func setup(t *testing.T) (afero.Fs, *config.Globals) {
	t.Helper()
	color.NoColor = true

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/.dyntag.yaml", []byte("catalog: [catalogs/*.yaml]\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/proj/catalogs/core.yaml", []byte(testCatalog), 0o644))

	return fs, &config.Globals{Fs: fs, WorkDir: "/proj"}
}

func execute(t *testing.T, globals *config.Globals, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand(globals)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewReader(nil))

	err := cmd.Execute()
	return out.String(), err
}

func TestTokensCommand(t *testing.T) {
	_, globals := setup(t)

	out, err := execute(t, globals, "tokens", "--text", "Hi @post(title).truncate(10)")
	require.NoError(t, err)

	var toks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &toks))
	require.Len(t, toks, 2)
	assert.Equal(t, "text", toks[0]["kind"])
	assert.Equal(t, "tag", toks[1]["kind"])
	assert.Equal(t, "post", toks[1]["group"])
	assert.Equal(t, "@post(title).truncate(10)", toks[1]["canonical"])
}

func TestSemanticTokensCommand(t *testing.T) {
	_, globals := setup(t)

	out, err := execute(t, globals, "tokens", "--semantic", "--text", "@site().math(2)")
	require.NoError(t, err)

	var toks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &toks))
	require.Len(t, toks, 9)
	assert.Equal(t, "group", toks[1]["type"])
	assert.Equal(t, "modifier", toks[5]["type"])
	assert.Equal(t, "group_method", toks[5]["flags"])
}

func TestFormatCommand(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		_, globals := setup(t)
		out, err := execute(t, globals, "fmt", "--text", `Hi @post(title).truncate( 10 , "x" ).upper`)
		require.NoError(t, err)
		assert.Equal(t, "Hi @post(title).truncate(10,'x').upper", out)
	})

	t.Run("check", func(t *testing.T) {
		_, globals := setup(t)
		_, err := execute(t, globals, "fmt", "--check", "--text", "@post(title).upper()")
		require.NoError(t, err)

		_, globals = setup(t)
		_, err = execute(t, globals, "fmt", "--check", "--text", `@post(title).upper("x")`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not in canonical form")
	})

	t.Run("diff", func(t *testing.T) {
		_, globals := setup(t)
		out, err := execute(t, globals, "fmt", "--diff", "--text", "keep\n@post(title).upper( )")
		require.NoError(t, err)
		assert.Contains(t, out, " keep")
		assert.Contains(t, out, "-@post(title).upper( )")
		assert.Contains(t, out, "+@post(title).upper()")
	})

	t.Run("write", func(t *testing.T) {
		fs, globals := setup(t)
		require.NoError(t, afero.WriteFile(fs, "/proj/page.txt", []byte(`@post(date).truncate("5")`), 0o644))

		_, err := execute(t, globals, "fmt", "-w", "/proj/page.txt")
		require.NoError(t, err)

		data, err := afero.ReadFile(fs, "/proj/page.txt")
		require.NoError(t, err)
		assert.Equal(t, "@post(date).truncate('5')", string(data))
	})
}

func TestCompleteCommand(t *testing.T) {
	t.Run("state", func(t *testing.T) {
		_, globals := setup(t)
		out, err := execute(t, globals, "complete", "--text", "Hi @po")
		require.NoError(t, err)

		var state struct {
			Kind   string `json:"kind"`
			Query  string `json:"query"`
			Anchor int    `json:"anchor"`
			Tags   []struct {
				Key string `json:"key"`
			} `json:"tags"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &state))
		assert.Equal(t, "tag", state.Kind)
		assert.Equal(t, "po", state.Query)
		assert.Equal(t, 3, state.Anchor)
		require.Len(t, state.Tags, 2)
		assert.Equal(t, "title", state.Tags[0].Key)
	})

	t.Run("accept", func(t *testing.T) {
		_, globals := setup(t)
		out, err := execute(t, globals, "complete", "--text", "@post(title).tr", "--accept", "0")
		require.NoError(t, err)
		assert.JSONEq(t, `{"new_text":"@post(title).truncate()","new_cursor":22}`, out)
	})

	t.Run("accept out of range", func(t *testing.T) {
		_, globals := setup(t)
		_, err := execute(t, globals, "complete", "--text", "@post(title).tr", "--accept", "4")
		require.Error(t, err)
	})
}

func TestHoverCommand(t *testing.T) {
	_, globals := setup(t)
	out, err := execute(t, globals, "hover", "--text", "x\n@post(title)", "--at", "2:3")
	require.NoError(t, err)
	assert.Contains(t, out, "**Post Title**")
}

func TestCheckCommand(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		_, globals := setup(t)
		out, err := execute(t, globals, "check", "--text", "@post(title).upper()")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("errors fail the command", func(t *testing.T) {
		_, globals := setup(t)
		out, err := execute(t, globals, "check", "--text", "@post(title).trunc(1)")
		require.Error(t, err)
		assert.Equal(t, "input:1:14: error: unknown modifier \"trunc\", did you mean \"truncate\"?\n", out)
	})

	t.Run("json", func(t *testing.T) {
		_, globals := setup(t)
		out, err := execute(t, globals, "--json", "check", "--text", "@post(titel)")
		require.NoError(t, err)

		var diags struct {
			Warnings []struct {
				Message string `json:"message"`
				Column  int    `json:"column"`
			} `json:"warnings"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &diags))
		require.Len(t, diags.Warnings, 1)
		assert.Equal(t, 6, diags.Warnings[0].Column)
	})

	t.Run("strict fails on warnings", func(t *testing.T) {
		_, globals := setup(t)
		_, err := execute(t, globals, "check", "--strict", "--text", "@post(titel)")
		require.Error(t, err)
	})
}
