package ports

import (
	"context"
	"encoding/base64"
	"slices"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/md2pptx/internal/app"
	"github.com/xenking/md2pptx/internal/manifest"
)

func callPpt(t *testing.T, conv *fakeConverter, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s, err := NewMCPServer(loadPlugin(t), app.NewPptTool(conv, discardLogger), discardLogger)
	require.NoError(t, err)

	req := mcp.CallToolRequest{}
	req.Params.Name = app.ToolName
	req.Params.Arguments = args
	res, err := s.handleTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestMCPToolSchema(t *testing.T) {
	def, ok := loadPlugin(t).Tool(app.ToolName)
	require.True(t, ok)

	tool := mcpTool(def)
	assert.Equal(t, "ppt", tool.Name)
	assert.Equal(t, []string{"markdown_content"}, tool.InputSchema.Required)
	assert.Contains(t, tool.InputSchema.Properties, "title")
	assert.Contains(t, tool.InputSchema.Properties, "theme")
}

func TestMCPServerRequiresToolParameters(t *testing.T) {
	plugin := loadPlugin(t)
	for i := range plugin.Providers {
		for j := range plugin.Providers[i].Tools {
			tool := &plugin.Providers[i].Tools[j]
			tool.Parameters = slices.DeleteFunc(tool.Parameters, func(p manifest.Parameter) bool {
				return p.Name == "theme"
			})
		}
	}

	_, err := NewMCPServer(plugin, app.NewPptTool(&fakeConverter{}, discardLogger), discardLogger)
	require.ErrorContains(t, err, `parameter "theme"`)
}

func TestMCPHandleTool(t *testing.T) {
	res := callPpt(t, &fakeConverter{}, map[string]any{
		"markdown_content": "# Hello",
		"title":            "Road Map",
	})
	require.False(t, res.IsError)
	require.Len(t, res.Content, 2)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "PowerPoint presentation 'Road Map' generated successfully", text.Text)

	embedded, ok := res.Content[1].(mcp.EmbeddedResource)
	require.True(t, ok)
	blob, ok := embedded.Resource.(mcp.BlobResourceContents)
	require.True(t, ok)
	assert.Equal(t, "file:///Road_Map.pptx", blob.URI)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation", blob.MIMEType)
	data, err := base64.StdEncoding.DecodeString(blob.Blob)
	require.NoError(t, err)
	assert.Equal(t, "PK-deck", string(data))
}

func TestMCPHandleToolWithoutDeck(t *testing.T) {
	conv := &fakeConverter{}
	res := callPpt(t, conv, map[string]any{"markdown_content": ""})
	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "No markdown content provided.", text.Text)
	assert.Empty(t, conv.requests)
}
