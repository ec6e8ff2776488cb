package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and metadata.",
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
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
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
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG. Use this to zoom into a detected grid area for inspection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
					"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
					"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
					"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Detection
		{
			Name:        "grid_detect",
			Description: "Detect the measurement grid in an image of a printed or photographed sheet. Returns the estimated grid pitch in pixels and meters (assuming the image spans 1.0m), cells across, a confidence score with its component sub-scores, and the detected line positions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"max_dimension": map[string]interface{}{
						"type":        "integer",
						"description": "Downscale larger images so neither side exceeds this before detection (default 4096, 0 to disable). Reported positions are mapped back to original coordinates.",
						"default":     4096,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "content_detect",
			Description: "Detect the bounding box of the significant content in an image. Returns pixel coordinates or an explicit no-content result for blank images.",
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
			Name:        "grid_overlay",
			Description: "Run grid and content detection and return the image with the detected grid lines and content box painted on, as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color as #RRGGBB hex (default #FF0000)",
						"default":     "#FF0000",
					},
					"show_content": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to also draw the detected content bounding box",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},

		// Grid settings
		{
			Name:        "grid_set_size",
			Description: "Set the active grid cell size in meters. The value snaps to the closest standard size (0.01, 0.02, 0.05, 0.1, 0.2, 0.25, 0.5) when within 15%, and is clamped to [0.01, 0.5].",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"size_m": map[string]interface{}{
						"type":        "number",
						"description": "Requested grid size in meters",
					},
				},
				"required": []string{"size_m"},
			},
		},
		{
			Name:        "grid_get_state",
			Description: "Get the current grid settings: cell size, visibility, cells per meter and whether the size is standard.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "grid_toggle",
			Description: "Toggle grid visibility and return the new state.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "grid_reset",
			Description: "Reset the grid to the standard 10-cell layout (0.1m).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
