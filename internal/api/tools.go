package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webscout/webscout/internal/schema"
	"github.com/webscout/webscout/internal/service/dispatch"
	"github.com/webscout/webscout/pkg/types"
	"go.uber.org/zap"
)

func (s *Server) listToolsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		tools := make([]types.Tool, 0)
		for _, svc := range s.services {
			tools = append(tools, svc.ListTools()...)
		}
		c.JSON(http.StatusOK, gin.H{"tools": tools})
	}
}

func (s *Server) invokeToolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input types.ToolInvokeRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		svc := s.serviceForTool(input.Name)
		if svc == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": (&dispatch.UnknownToolError{Name: input.Name}).Error(),
			})
			return
		}

		result, err := svc.InvokeTool(c.Request.Context(), input.Name, input.Arguments)
		if err != nil {
			var unknownErr *dispatch.UnknownToolError
			var validationErr *schema.ValidationError
			switch {
			case errors.As(err, &unknownErr):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.As(err, &validationErr):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				s.logger.Error("tool invocation failed",
					zap.String("tool", input.Name), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// serviceForTool returns the dispatch service that owns the named tool, or nil.
func (s *Server) serviceForTool(name string) *dispatch.Service {
	for _, svc := range s.services {
		for _, tool := range svc.ListTools() {
			if tool.Name == name {
				return svc
			}
		}
	}
	return nil
}
