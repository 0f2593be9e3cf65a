// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes vibecard tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vibecard/internal/cardservice"
	"github.com/starford/vibecard/internal/models"
)

const linkFormatURI = "vibecard://link-format"

// Server wraps the MCP server with vibecard tools.
type Server struct {
	mcp *server.MCPServer
	svc *cardservice.Service
}

// New creates a new MCP server with all vibecard tools registered.
func New(svc *cardservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"vibecard",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	vibes := make([]string, len(models.Vibes))
	for i, v := range models.Vibes {
		vibes[i] = v.Param()
	}

	s.mcp.AddTool(mcp.NewTool("compose_card",
		mcp.WithDescription("Compose a greeting card and return its share link. "+
			"Leave message empty to have one generated for the vibe."),
		mcp.WithString("vibe", mcp.Required(), mcp.Enum(vibes...), mcp.Description("Card vibe")),
		mcp.WithString("recipient_name", mcp.Required(), mcp.Description("Who the card is for")),
		mcp.WithString("sender_name", mcp.Required(), mcp.Description("Who the card is from")),
		mcp.WithString("message", mcp.Description("Optional message; generated when empty")),
		mcp.WithString("photo_url", mcp.Description("Optional external photo URL")),
	), s.composeCard)

	s.mcp.AddTool(mcp.NewTool("encode_card",
		mcp.WithDescription("Build the share link for a finished card without generating a message."),
		mcp.WithString("vibe", mcp.Required(), mcp.Enum(vibes...), mcp.Description("Card vibe")),
		mcp.WithString("recipient_name", mcp.Required(), mcp.Description("Who the card is for")),
		mcp.WithString("sender_name", mcp.Required(), mcp.Description("Who the card is from")),
		mcp.WithString("message", mcp.Description("Card message")),
		mcp.WithString("photo_url", mcp.Description("Optional external photo URL")),
	), s.encodeCard)

	s.mcp.AddTool(mcp.NewTool("decode_card",
		mcp.WithDescription("Read the card carried by a share link or its query string."),
		mcp.WithString("link", mcp.Required(), mcp.Description("Share link, e.g. https://host/?v=love&d=...")),
	), s.decodeCard)

	s.mcp.AddTool(mcp.NewTool("generate_message",
		mcp.WithDescription("Generate a short message (about 15 words) for a vibe and recipient."),
		mcp.WithString("vibe", mcp.Required(), mcp.Enum(vibes...), mcp.Description("Card vibe")),
		mcp.WithString("recipient_name", mcp.Required(), mcp.Description("Who the message is for")),
	), s.generateMessage)

	s.mcp.AddTool(mcp.NewTool("list_vibes",
		mcp.WithDescription("List the vibes a card can have."),
	), s.listVibes)

	s.mcp.AddTool(mcp.NewTool("get_link_format",
		mcp.WithDescription("Returns the share-link format contract."),
	), s.getLinkFormat)

	s.mcp.AddResource(
		mcp.NewResource(linkFormatURI, "Link Format Contract",
			mcp.WithResourceDescription("How a card is encoded into its share link."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkFormatResource,
	)

	return s
}

// ServeStdio serves MCP on stdin/stdout until ctx is cancelled or stdin
// closes. Transport errors go to errLog; stdout carries only protocol frames.
func (s *Server) ServeStdio(ctx context.Context, errLog *log.Logger) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(errLog)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func composeInput(req mcp.CallToolRequest) (cardservice.ComposeInput, error) {
	vibe, err := req.RequireString("vibe")
	if err != nil {
		return cardservice.ComposeInput{}, err
	}
	recipient, err := req.RequireString("recipient_name")
	if err != nil {
		return cardservice.ComposeInput{}, err
	}
	sender, err := req.RequireString("sender_name")
	if err != nil {
		return cardservice.ComposeInput{}, err
	}
	return cardservice.ComposeInput{
		Vibe:          vibe,
		RecipientName: recipient,
		SenderName:    sender,
		Message:       req.GetString("message", ""),
		PhotoURL:      req.GetString("photo_url", ""),
	}, nil
}

func (s *Server) composeCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := composeInput(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Compose(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) encodeCard(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := composeInput(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vibe, err := models.ParseVibe(in.Vibe)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Encode(models.Card{
		Vibe:          vibe,
		RecipientName: in.RecipientName,
		SenderName:    in.SenderName,
		Message:       in.Message,
		Photo:         models.Photo(in.PhotoURL),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) decodeCard(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	link, err := req.RequireString("link")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Open(strings.TrimSpace(link))
	if err != nil {
		return mcp.NewToolResultError("no card in link: " + err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) generateMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vibe, err := req.RequireString("vibe")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recipient, err := req.RequireString("recipient_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg, err := s.svc.GenerateMessage(ctx, vibe, recipient)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) listVibes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := make([]string, len(models.Vibes))
	for i, v := range models.Vibes {
		out[i] = v.Param()
	}
	return mcp.NewToolResultText(strings.Join(out, "\n")), nil
}

func (s *Server) getLinkFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LinkFormatContract), nil
}

func (s *Server) readLinkFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      linkFormatURI,
			MIMEType: "text/markdown",
			Text:     LinkFormatContract,
		},
	}, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}
