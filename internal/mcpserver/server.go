// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the jotpad note workflow as tools over stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/noteservice"
)

// WorkflowURI identifies the workflow description resource.
const WorkflowURI = "jotpad://workflow"

// Server wraps the MCP server with jotpad tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all jotpad tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"jotpad",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List note ids and titles in display order."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note's title and content."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Show the edit session: mode, draft title, draft content and target note."),
	), s.getSession)

	s.mcp.AddTool(mcp.NewTool("open_create",
		mcp.WithDescription("Open an empty draft for a new note. Any open draft is discarded."),
	), s.openCreate)

	s.mcp.AddTool(mcp.NewTool("open_edit",
		mcp.WithDescription("Open a draft pre-filled from an existing note. Any open draft is discarded."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Id of the note to edit")),
	), s.openEdit)

	s.mcp.AddTool(mcp.NewTool("set_draft",
		mcp.WithDescription("Change the open draft. Omitted fields are left as they are."),
		mcp.WithString("title", mcp.Description("New draft title")),
		mcp.WithString("content", mcp.Description("New draft content")),
	), s.setDraft)

	s.mcp.AddTool(mcp.NewTool("save_note",
		mcp.WithDescription("Commit the open draft. Fails without closing the draft when the title is blank."),
	), s.saveNote)

	s.mcp.AddTool(mcp.NewTool("cancel_edit",
		mcp.WithDescription("Close the draft without changing any note."),
	), s.cancelEdit)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete the note being edited and close the draft. Only valid after open_edit."),
	), s.deleteNote)

	s.mcp.AddResource(
		mcp.NewResource(WorkflowURI, "Edit Workflow",
			mcp.WithResourceDescription("How the jotpad edit session works."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readWorkflowResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrEmptyTitle) {
		return mcp.NewToolResultError(apperr.EmptyTitleMessage)
	}
	return mcp.NewToolResultError(err.Error())
}

func requireID(req mcp.CallToolRequest) (int64, error) {
	f, err := req.RequireFloat("id")
	if err != nil {
		return 0, err
	}
	id := int64(f)
	if float64(id) != f {
		return 0, fmt.Errorf("id must be an integer, got %v", f)
	}
	return id, nil
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.Summaries(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no notes"), nil
	}
	return jsonResult(items), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.GetNote(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %d", id)), nil
	}
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(n), nil
}

func (s *Server) getSession(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Session()), nil
}

func (s *Server) openCreate(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.OpenCreate(ctx)), nil
}

func (s *Server) openEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st, err := s.svc.OpenEdit(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(st), nil
}

func (s *Server) setDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	_, hasTitle := args["title"]
	_, hasContent := args["content"]
	if !hasTitle && !hasContent {
		return mcp.NewToolResultError("title or content is required"), nil
	}

	var title, content *string
	if hasTitle {
		v, err := req.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title = &v
	}
	if hasContent {
		v, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content = &v
	}

	st, err := s.svc.SetDraft(ctx, title, content)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(st), nil
}

func (s *Server) saveNote(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.svc.Save(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(n), nil
}

func (s *Server) cancelEdit(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.svc.Cancel(ctx)
	return mcp.NewToolResultText("closed"), nil
}

func (s *Server) deleteNote(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.svc.Delete(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %d", id)), nil
}

func (s *Server) readWorkflowResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      WorkflowURI,
			MIMEType: "text/markdown",
			Text:     WorkflowGuide,
		},
	}, nil
}
