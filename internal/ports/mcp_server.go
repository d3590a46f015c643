package ports

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xenking/md2pptx/internal/app"
	"github.com/xenking/md2pptx/internal/domain"
	"github.com/xenking/md2pptx/internal/manifest"
)

// MCPServer exposes the ppt tool over the Model Context Protocol.
type MCPServer struct {
	server *server.MCPServer
	tool   *app.PptTool
	logger *slog.Logger
}

func NewMCPServer(plugin *manifest.Plugin, tool *app.PptTool, logger *slog.Logger) (*MCPServer, error) {
	def, ok := plugin.Tool(app.ToolName)
	if !ok {
		return nil, fmt.Errorf("manifest: %w: %s", domain.ErrUnknownTool, app.ToolName)
	}
	// The schema comes from the manifest, so it must carry every argument
	// the tool reads.
	for _, name := range []string{domain.ParamMarkdownContent, domain.ParamTitle, domain.ParamTheme} {
		if _, ok := def.Parameter(name); !ok {
			return nil, fmt.Errorf("manifest: tool %s does not declare parameter %q", app.ToolName, name)
		}
	}

	s := &MCPServer{
		server: server.NewMCPServer(plugin.Name, plugin.Version, server.WithToolCapabilities(false)),
		tool:   tool,
		logger: logger.With(slog.String("component", "mcp-server")),
	}
	s.server.AddTool(mcpTool(def), s.handleTool)
	return s, nil
}

// mcpTool builds the tool schema from its manifest definition.
func mcpTool(def manifest.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description.LLM)}
	for _, p := range def.Parameters {
		propOpts := []mcp.PropertyOption{mcp.Description(p.LLMDescription)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		switch p.Type {
		case "number":
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		default:
			if d := p.DefaultString(); d != "" {
				propOpts = append(propOpts, mcp.DefaultString(d))
			}
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}
	return mcp.NewTool(def.Identity.Name, opts...)
}

// handleTool maps the tool messages onto MCP content: text stays text, the
// deck becomes an embedded blob resource.
func (s *MCPServer) handleTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := &mcp.CallToolResult{}
	hasBlob := false
	for msg := range s.tool.Invoke(ctx, req.GetArguments()) {
		switch msg.Type {
		case domain.ToolMessageText:
			result.Content = append(result.Content, mcp.NewTextContent(msg.Text))
		case domain.ToolMessageBlob:
			hasBlob = true
			result.Content = append(result.Content, mcp.NewEmbeddedResource(mcp.BlobResourceContents{
				URI:      "file:///" + msg.Meta.Filename,
				MIMEType: msg.Meta.MimeType,
				Blob:     base64.StdEncoding.EncodeToString(msg.Blob),
			}))
		}
	}
	result.IsError = !hasBlob
	return result, nil
}

// Serve speaks MCP over the given streams until ctx is done or in is closed.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.InfoContext(ctx, "serving mcp over stdio")
	return server.NewStdioServer(s.server).Listen(ctx, in, out)
}
