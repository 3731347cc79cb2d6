package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/epd-image/internal/display"
	epdimaging "github.com/ironsheep/epd-image/internal/imaging"
	"github.com/ironsheep/epd-image/internal/panel"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "epd_panels", "epd_display").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	return s.toolResponse(req.ID, result)
}

// toolResponse wraps a tool result as MCP text content. A result that
// cannot be encoded is reported as a tool failure.
func (s *Server) toolResponse(id interface{}, result interface{}) *MCPResponse {
	text, err := marshalResult(result)
	if err != nil {
		return s.errorResponse(id, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "epd_panels":
		return s.handlePanels()
	case "epd_image_info":
		return s.handleImageInfo(args)
	case "epd_preview":
		return s.handlePreview(args)
	case "epd_display":
		return s.handleDisplay(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

func marshalResult(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return string(b), nil
}

// unmarshalArgs decodes tool arguments, treating a missing object as empty.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// PanelInfo is one entry of the epd_panels result.
type PanelInfo struct {
	panel.Descriptor
	Format epdimaging.Format `json:"format"`
	Colors []string          `json:"colors"`
}

func (s *Server) handlePanels() (interface{}, error) {
	descs := s.displayer.Registry().Descriptors()
	out := make([]PanelInfo, 0, len(descs))
	for _, d := range descs {
		out = append(out, PanelInfo{Descriptor: d, Format: d.Format(), Colors: d.Colors()})
	}
	return map[string]interface{}{"panels": out}, nil
}

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return epdimaging.LoadImageInfo(s.cache, a.Path)
}

type renderArgs struct {
	Path     string `json:"path"`
	Model    string `json:"model"`
	Mode     string `json:"mode"`
	Rotation int    `json:"rotation"`
	Dither   *bool  `json:"dither"`
}

func (a renderArgs) request() display.Request {
	dither := true
	if a.Dither != nil {
		dither = *a.Dither
	}
	return display.Request{
		Path:     a.Path,
		Model:    a.Model,
		Mode:     a.Mode,
		Rotation: a.Rotation,
		Dither:   dither,
	}
}

// PreviewResult is the epd_preview result.
type PreviewResult struct {
	*display.Result
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	frame, res, err := s.displayer.Render(a.request())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return &PreviewResult{
		Result:      res,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

type displayArgs struct {
	renderArgs
	Refresh *bool  `json:"refresh"`
	Output  string `json:"output"`
}

func (s *Server) handleDisplay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a displayArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	req := a.request()
	req.Refresh = true
	if a.Refresh != nil {
		req.Refresh = *a.Refresh
	}
	req.Output = a.Output

	return s.displayer.Show(ctx, req)
}
