package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies.
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance.
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"docmind-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}
	s.registerTools()
	return s
}

// registerTools registers all available MCP tools.
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_youtube_metadata",
		mcp.WithDescription("Extract video metadata including caption availability. Check 'Has Captions' before calling the transcript or blog tools: DocMind works on captions only."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
	), s.handleGetMetadata)

	s.mcpServer.AddTool(mcp.NewTool("get_youtube_transcript",
		mcp.WithDescription("Get the YouTube captions/transcript for a video. Fails with a specific reason if captions are disabled, the video is private, or no transcript exists."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
	), s.handleGetTranscript)

	s.mcpServer.AddTool(mcp.NewTool("generate_blog_post",
		mcp.WithDescription("Turn a YouTube video's transcript into a publication-ready, SEO-optimized blog post via the five-stage pipeline (research, outline, SEO, writing, review). Requires GROQ_API_KEY. Takes several minutes for long videos."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
		mcp.WithString("tone",
			mcp.Description("Writing tone: professional, casual, educational, storytelling, technical (default professional)"),
		),
		mcp.WithString("length",
			mcp.Description("Post length: short (~800 words), medium (~1500), long (~2500), epic (~4000) (default medium)"),
		),
	), s.handleGenerateBlog)
}

// handleGetMetadata implements the get_youtube_metadata tool.
func (s *MCPServer) handleGetMetadata(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	videoID, err := ExtractVideoID(url)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid video", err), nil
	}

	metadata, err := s.app.Metadata(ctx, videoID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("metadata error", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Title: %s\n", metadata.Title))
	buf.WriteString(fmt.Sprintf("Channel: %s\n", metadata.Channel))
	buf.WriteString(fmt.Sprintf("Duration: %.0f seconds\n", metadata.Duration))
	buf.WriteString(fmt.Sprintf("Description: %s\n", metadata.Description))
	buf.WriteString(fmt.Sprintf("Has Captions: %t\n", metadata.HasCaptions))

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleGetTranscript implements the get_youtube_transcript tool.
func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	videoID, err := ExtractVideoID(url)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid video", err), nil
	}

	transcript, err := s.app.GetTranscript(ctx, videoID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("transcript error", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(transcript.Raw())},
	}, nil
}

// handleGenerateBlog implements the generate_blog_post tool.
func (s *MCPServer) handleGenerateBlog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	videoID, err := ExtractVideoID(url)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid video", err), nil
	}

	tone, err := ParseTone(request.GetString("tone", ""))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid tone", err), nil
	}
	length, err := ParseLength(request.GetString("length", ""))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid length", err), nil
	}

	MCPLogInfo("generate_blog_post started for %s (tone=%s, length=%s)", videoID, tone, length)
	result, err := s.app.GenerateBlog(ctx, videoID, RunOptions{Tone: tone, Length: length})
	if err != nil {
		MCPLogError("generate_blog_post failed for %s: %v", videoID, err)
		return mcp.NewToolResultErrorFromErr("blog generation failed", err), nil
	}
	MCPLogInfo("generate_blog_post completed for %s (%d words)", videoID, result.WordCount)

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(result.Blog)},
	}, nil
}

// Start starts the MCP server using the specified transport.
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	MCPLogInfo("starting MCP server with %s transport", transport)
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}
