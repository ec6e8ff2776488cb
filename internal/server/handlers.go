package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/draftscale/gridscan/internal/detection"
	"github.com/draftscale/gridscan/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "grid_detect", "image_crop").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Detection
	case "grid_detect":
		return s.handleGridDetect(args)
	case "content_detect":
		return s.handleContentDetect(args)
	case "grid_overlay":
		return s.handleGridOverlay(args)

	// Grid settings
	case "grid_set_size":
		return s.handleGridSetSize(args)
	case "grid_get_state":
		return s.grid.Snapshot(), nil
	case "grid_toggle":
		return map[string]bool{"show_grid": s.grid.Toggle()}, nil
	case "grid_reset":
		return map[string]float64{"size_m": s.grid.Reset()}, nil

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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

// === Detection Handlers ===

type gridDetectArgs struct {
	Path         string `json:"path"`
	MaxDimension int    `json:"max_dimension"`
}

func (s *Server) handleGridDetect(args json.RawMessage) (interface{}, error) {
	var a gridDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxDimension == 0 {
		a.MaxDimension = 4096
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	scaled, scale := imaging.Downscale(img, a.MaxDimension)
	result := s.detector.DetectGrid(scaled)
	if result.Detected && scale != 1.0 {
		rescaleGridResult(result, scale)
	}
	return result, nil
}

// rescaleGridResult maps pixel quantities measured on a downscaled image
// back to original image coordinates. Physical sizes and scores are scale
// invariant and stay untouched.
func rescaleGridResult(r *detection.GridResult, scale float64) {
	r.GridSizePx /= scale
	r.HorizontalSpacing /= scale
	r.VerticalSpacing /= scale
	for i := range r.HorizontalLines {
		r.HorizontalLines[i] /= scale
	}
	for i := range r.VerticalLines {
		r.VerticalLines[i] /= scale
	}
}

func (s *Server) handleContentDetect(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.detector.DetectContent(img), nil
}

type gridOverlayArgs struct {
	Path        string `json:"path"`
	LineColor   string `json:"line_color"`
	ShowContent *bool  `json:"show_content"`
}

// gridOverlayResponse bundles the rendered overlay with the detection
// results it was drawn from.
type gridOverlayResponse struct {
	*imaging.OverlayResult
	Grid    *detection.GridResult    `json:"grid"`
	Content *detection.ContentResult `json:"content,omitempty"`
}

func (s *Server) handleGridOverlay(args json.RawMessage) (interface{}, error) {
	var a gridOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.LineColor == "" {
		a.LineColor = "#FF0000"
	}
	showContent := true
	if a.ShowContent != nil {
		showContent = *a.ShowContent
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	gridResult := s.detector.DetectGrid(img)

	var contentResult *detection.ContentResult
	var box *image.Rectangle
	if showContent {
		contentResult = s.detector.DetectContent(img)
		if contentResult.Found {
			r := image.Rect(contentResult.Bounds.X1, contentResult.Bounds.Y1,
				contentResult.Bounds.X2, contentResult.Bounds.Y2)
			box = &r
		}
	}

	overlay, err := imaging.Overlay(img, gridResult.HorizontalLines, gridResult.VerticalLines, box, a.LineColor)
	if err != nil {
		return nil, err
	}

	return &gridOverlayResponse{
		OverlayResult: overlay,
		Grid:          gridResult,
		Content:       contentResult,
	}, nil
}

// === Grid Setting Handlers ===

type gridSetSizeArgs struct {
	SizeM float64 `json:"size_m"`
}

func (s *Server) handleGridSetSize(args json.RawMessage) (interface{}, error) {
	var a gridSetSizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.SizeM <= 0 {
		return nil, fmt.Errorf("size_m must be positive, got %v", a.SizeM)
	}
	s.grid.SetSize(a.SizeM)
	return s.grid.Snapshot(), nil
}
