package dashboard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiResponse is the JSON envelope shared by all API endpoints.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// moveRequest is the body of POST /api/orders/:id/move.
type moveRequest struct {
	To string `json:"to"`
}

// handleAPIBoard returns the filtered columns as JSON.
func handleAPIBoard(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		sel := parseSelection(c)
		cols := srv.filteredColumns(sel)
		c.JSON(http.StatusOK, apiResponse{Success: true, Data: cols})
	}
}

// handleAPIMove is the drag-end input: the dragged order id in the path,
// the drop target in the body. The drop target runs through the same
// validation as a pointer gesture: a non-stage target (another card's
// id) or a stale order id is acknowledged without mutating anything.
func handleAPIMove(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req moveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apiResponse{Success: false, Error: "invalid request body"})
			return
		}

		orderID := c.Param("id")
		if !srv.coord.DragStart(orderID) {
			// Order vanished between render and drop; benign race.
			c.JSON(http.StatusOK, apiResponse{Success: true, Data: gin.H{"moved": false}})
			return
		}

		before, _ := srv.board.Find(orderID)

		// The write outlives the request: detach from the request
		// context so a closed connection can't cancel it mid-flight.
		ctx := context.WithoutCancel(c.Request.Context())
		if err := srv.coord.DragEnd(ctx, orderID, req.To); err != nil {
			c.JSON(http.StatusOK, apiResponse{Success: false, Error: err.Error()})
			return
		}

		after, _ := srv.board.Find(orderID)
		c.JSON(http.StatusOK, apiResponse{
			Success: true,
			Data:    gin.H{"moved": before.Status != after.Status, "status": after.Status},
		})
	}
}

// handleAPIRefresh re-fetches from the store; the retry affordance after
// a failed load.
func handleAPIRefresh(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := srv.refresh(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, apiResponse{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, apiResponse{Success: true})
	}
}
