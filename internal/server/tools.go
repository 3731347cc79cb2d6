package server

import "github.com/ironsheep/epd-image/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func modeNames() []string {
	names := make([]string, 0, len(imaging.Modes))
	for _, m := range imaging.Modes {
		names = append(names, string(m))
	}
	return names
}

// renderProperties are the inputs shared by epd_preview and epd_display.
func renderProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"model": map[string]interface{}{
			"type":        "string",
			"description": "Panel model (see epd_panels). Defaults to $EPD_MODEL",
		},
		"mode": map[string]interface{}{
			"type":        "string",
			"enum":        modeNames(),
			"description": "fit letterboxes on white, fill covers and crops the centre, stretch ignores aspect ratio. Default fit",
			"default":     "fit",
		},
		"rotation": map[string]interface{}{
			"type":        "integer",
			"enum":        []int{0, 90, 180, 270},
			"description": "Clockwise rotation in degrees, applied before sizing. Default 0",
			"default":     0,
		},
		"dither": map[string]interface{}{
			"type":        "boolean",
			"description": "Floyd-Steinberg dither when reducing to black and white. Default true",
			"default":     true,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	display := renderProperties()
	display["refresh"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Accepted for compatibility; every display performs a full refresh",
		"default":     true,
	}
	display["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Write a PNG preview to this path instead of driving the panel",
	}

	return []Tool{
		{
			Name:        "epd_panels",
			Description: "List the supported e-paper panels with their size, colour capability, palette and call sequence.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "epd_image_info",
			Description: "Get the dimensions, format and orientation of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "epd_preview",
			Description: "Rotate, size and convert an image exactly as it would be sent to a panel and return the frame as base64-encoded PNG. The panel is not touched.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "epd_display",
			Description: "Show an image on an e-paper panel, or render it to a PNG file when output is given.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": display,
				"required":   []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
