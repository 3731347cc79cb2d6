// Package server implements an MCP (Model Context Protocol) server that lets
// an assistant inspect images and put them on an e-paper panel.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr so they never interleave with protocol traffic.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - epd_panels: List registered panels and their capabilities
//   - epd_image_info: Dimensions, format and orientation of an image file
//   - epd_preview: The exact frame a panel would receive, as base64 PNG
//   - epd_display: Show an image on a panel or render it to a PNG file
//
// epd_preview and epd_display accept path, model, mode, rotation and dither;
// epd_display also takes refresh and output. A missing model falls back to
// $EPD_MODEL.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server and shared
// by all tools.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
