package http_api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CallRequest represents the JSON body for a tool invocation
type CallRequest struct {
	Name      string          `json:"name" binding:"required"`
	Arguments json.RawMessage `json:"arguments"`
}

// ListToolsResponse represents the tool listing
type ListToolsResponse struct {
	Tools interface{} `json:"tools"`
}

// health is a handler for the /health endpoint.
func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listTools is a handler for the /tools endpoint.
// It returns the descriptors of all registered tools.
func (s *HTTPServer) listTools(c *gin.Context) {
	c.JSON(http.StatusOK, ListToolsResponse{Tools: s.registry.List()})
}

// callTool is a handler for the /tools/call endpoint.
// Tool-level failures are reported inside a structured 200 response; callers
// distinguish outcomes by the result fields, not by HTTP status.
func (s *HTTPServer) callTool(c *gin.Context) {
	var req CallRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	if !s.registry.Has(req.Name) {
		s.logger.Debug("Unknown tool requested", "name", req.Name)
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Tool not found: " + req.Name,
		})
		return
	}

	arguments := req.Arguments
	if len(arguments) == 0 {
		arguments = json.RawMessage("{}")
	}

	result, err := s.registry.Call(c.Request.Context(), req.Name, arguments)
	if err != nil {
		s.logger.Error("Tool call failed", "tool", req.Name, "error", err)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Error: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
