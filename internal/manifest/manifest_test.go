package manifest_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	md2pptx "github.com/xenking/md2pptx"
	"github.com/xenking/md2pptx/internal/manifest"
)

func TestLoadEmbedded(t *testing.T) {
	p, err := manifest.Load(md2pptx.Manifest())
	require.NoError(t, err)

	assert.Equal(t, "md2pptx", p.Name)
	require.Len(t, p.Providers, 1)
	assert.Equal(t, "ppt", p.Providers[0].Identity.Name)
	assert.Equal(t, []string{"ppt"}, p.ToolNames())

	tool, ok := p.Tool("ppt")
	require.True(t, ok)

	content, ok := tool.Parameter("markdown_content")
	require.True(t, ok)
	assert.True(t, content.Required)
	assert.Equal(t, "string", content.Type)
	assert.Equal(t, "llm", content.Form)

	title, ok := tool.Parameter("title")
	require.True(t, ok)
	assert.False(t, title.Required)
	assert.Equal(t, "Presentation", title.DefaultString())

	theme, ok := tool.Parameter("theme")
	require.True(t, ok)
	assert.Equal(t, "default", theme.DefaultString())

	_, ok = tool.Parameter("missing")
	assert.False(t, ok)
}

func TestLoadValidation(t *testing.T) {
	base := func(tool string) fstest.MapFS {
		return fstest.MapFS{
			"manifest.yaml":     {Data: []byte("name: demo\nplugins:\n  tools: [provider/p.yaml]\n")},
			"provider/p.yaml":   {Data: []byte("identity:\n  name: p\ntools: [tools/t.yaml]\n")},
			"tools/t.yaml":      {Data: []byte(tool)},
			"assets/unused.svg": {Data: []byte("<svg/>")},
		}
	}

	tests := []struct {
		name string
		fs   fstest.MapFS
		err  string
	}{
		{
			name: "valid",
			fs:   base("identity: {name: t}\nparameters:\n  - {name: a, type: string, required: true}\n"),
		},
		{
			name: "duplicate parameter",
			fs:   base("identity: {name: t}\nparameters:\n  - {name: a, type: string, required: true}\n  - {name: a, type: string}\n"),
			err:  "duplicate parameter",
		},
		{
			name: "no required parameter",
			fs:   base("identity: {name: t}\nparameters:\n  - {name: a, type: string}\n"),
			err:  "no required parameters",
		},
		{
			name: "bad type",
			fs:   base("identity: {name: t}\nparameters:\n  - {name: a, type: blob, required: true}\n"),
			err:  "unsupported type",
		},
		{
			name: "missing tool name",
			fs:   base("parameters:\n  - {name: a, type: string, required: true}\n"),
			err:  "tool name is empty",
		},
		{
			name: "missing tool file",
			fs: fstest.MapFS{
				"manifest.yaml":   {Data: []byte("name: demo\nplugins:\n  tools: [provider/p.yaml]\n")},
				"provider/p.yaml": {Data: []byte("identity:\n  name: p\ntools: [tools/t.yaml]\n")},
			},
			err: "read tools/t.yaml",
		},
		{
			name: "missing icon",
			fs: fstest.MapFS{
				"manifest.yaml": {Data: []byte("name: demo\nicon: icon.svg\nplugins:\n  tools: [provider/p.yaml]\n")},
			},
			err: "icon",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Load(tt.fs)
			if tt.err == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.err)
		})
	}
}
