package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "remind-bot"
	serverVersion = "1.0.0"
)

// Server exposes the reminder operations as MCP tools, so agent
// integrations can manage reminders through the same Service the chat
// commands use.
type Server struct {
	mcpServer *server.MCPServer
	svc       *Service
}

// NewServer creates a new reminder MCP server backed by the given service.
func NewServer(svc *Service) *Server {
	s := &Server{
		svc: svc,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("create_reminder",
			mcp.WithDescription("Create a reminder for a user at a local date and time, optionally recurring"),
			mcp.WithString("owner", mcp.Required(), mcp.Description("Opaque user/chat identifier")),
			mcp.WithString("date", mcp.Required(), mcp.Description("Local date in YYYY-MM-DD")),
			mcp.WithString("time", mcp.Required(), mcp.Description("Local 24-hour time in HH:MM")),
			mcp.WithString("text", mcp.Required(), mcp.Description("Reminder text")),
			mcp.WithString("recurrence", mcp.Description("Optional recurrence: daily or weekly")),
			mcp.WithString("notify_before", mcp.Description("Optional notify-before spec, e.g. 30m, 2h, 1d")),
		),
		s.handleCreateReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List a user's reminders in creation order"),
			mcp.WithString("owner", mcp.Required(), mcp.Description("Opaque user/chat identifier")),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_notify_offset",
			mcp.WithDescription("Add an extra notification before a reminder fires"),
			mcp.WithString("owner", mcp.Required(), mcp.Description("Opaque user/chat identifier")),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Reminder number as shown by list_reminders (1-based)")),
			mcp.WithString("before", mcp.Required(), mcp.Description("How long before, e.g. 30m, 2h, 1d")),
		),
		s.handleAddNotifyOffset,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithString("owner", mcp.Required(), mcp.Description("Opaque user/chat identifier")),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Reminder number as shown by list_reminders (1-based)")),
		),
		s.handleDeleteReminder,
	)
}

func (s *Server) handleCreateReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := req.GetString("owner", "")
	date := req.GetString("date", "")
	timeStr := req.GetString("time", "")
	text := req.GetString("text", "")
	recurrence := req.GetString("recurrence", "")
	before := req.GetString("notify_before", "")

	if owner == "" {
		return mcp.NewToolResultError("owner is required"), nil
	}

	var offsets []int
	if before != "" {
		minutes, err := ParseOffsetSpec(before)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid notify_before: %v", err)), nil
		}
		offsets = append(offsets, minutes)
	}

	r, err := s.svc.Create(owner, date, timeStr, text, recurrence, offsets...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create reminder: %v", err)), nil
	}

	output, _ := json.MarshalIndent(r, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := req.GetString("owner", "")
	if owner == "" {
		return mcp.NewToolResultError("owner is required"), nil
	}

	rs, err := s.svc.List(owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	if len(rs) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(rs, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleAddNotifyOffset(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := req.GetString("owner", "")
	idxFloat := req.GetFloat("index", -1)
	before := req.GetString("before", "")

	if owner == "" {
		return mcp.NewToolResultError("owner is required"), nil
	}
	if idxFloat < 1 {
		return mcp.NewToolResultError("index is required and must be a positive number"), nil
	}

	minutes, err := s.svc.AddNotifyOffset(owner, int(idxFloat), before)
	if err != nil {
		if errors.Is(err, ErrInvalidIndex) {
			return mcp.NewToolResultError("no reminder with that number"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to add notify offset: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Will notify %d minutes before reminder #%d.", minutes, int(idxFloat))), nil
}

func (s *Server) handleDeleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner := req.GetString("owner", "")
	idxFloat := req.GetFloat("index", -1)

	if owner == "" {
		return mcp.NewToolResultError("owner is required"), nil
	}
	if idxFloat < 1 {
		return mcp.NewToolResultError("index is required and must be a positive number"), nil
	}

	if err := s.svc.Delete(owner, int(idxFloat)); err != nil {
		if errors.Is(err, ErrInvalidIndex) {
			return mcp.NewToolResultError("no reminder with that number"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder #%d deleted.", int(idxFloat))), nil
}
