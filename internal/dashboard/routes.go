package dashboard

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelar/pitlane/internal/board"
	"github.com/avelar/pitlane/internal/filter"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, srv *Server) {
	// Embedded static assets (served from assets/ subdir of the embed.FS).
	staticFS, _ := fs.Sub(assetsFS, "assets")
	router.StaticFS("/static", http.FS(staticFS))

	// Pages.
	router.GET("/", handleBoard(srv))
	router.GET("/orders/:id", handleOrderDetail(srv))

	// JSON API consumed by the board's drag-and-drop layer.
	api := router.Group("/api")
	api.GET("/board", handleAPIBoard(srv))
	api.POST("/orders/:id/move", handleAPIMove(srv))
	api.POST("/refresh", handleAPIRefresh(srv))

	// SSE stream for toasts and board reloads.
	router.GET("/api/events", handleSSE(srv))
}

// parseSelection reads the filter controls from query parameters.
func parseSelection(c *gin.Context) filter.Selection {
	sel := filter.Selection{
		Mode:  filter.Mode(c.DefaultQuery("mode", string(filter.ModeAll))),
		Query: c.Query("q"),
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		sel.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		sel.To = &end
	}
	return sel
}

// filteredColumns applies the current filter selection to the board.
func (s *Server) filteredColumns(sel filter.Selection) []board.Column {
	r := filter.DateRange(sel, time.Now())
	orders := filter.Apply(s.board.Orders(), r, sel.Query)
	return board.Group(orders)
}

func handleBoard(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		sel := parseSelection(c)
		cols := srv.filteredColumns(sel)

		total := 0
		for _, col := range cols {
			total += len(col.Orders)
		}

		c.HTML(http.StatusOK, "board", gin.H{
			"Org":        srv.org,
			"Columns":    cols,
			"Mode":       string(sel.Mode),
			"Query":      sel.Query,
			"Total":      total,
			"FetchError": srv.fetchError(),
		})
	}
}

func handleOrderDetail(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		order, ok := srv.board.Find(id)
		if !ok {
			c.HTML(http.StatusNotFound, "order", gin.H{
				"Org":      srv.org,
				"NotFound": true,
				"OrderID":  id,
			})
			return
		}

		// Track the inspected order so later reloads keep the detail
		// panel pointing at live data.
		srv.selected.Select(order)

		c.HTML(http.StatusOK, "order", gin.H{
			"Org":   srv.org,
			"Order": order,
		})
	}
}
