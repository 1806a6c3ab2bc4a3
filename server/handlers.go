package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/chart"
	"github.com/etnz/fundterm/crosshair"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/session"
	"github.com/etnz/fundterm/terminal"
	"github.com/gin-gonic/gin"
)

// LineRequest is the body of POST /api/terminal/submit.
type LineRequest struct {
	Line string `json:"line"`
}

// LineResponse holds a line of the input field.
type LineResponse struct {
	Line string `json:"line"`
}

// CurrencyRequest is the body of PUT /api/currency.
type CurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

// VisibilityRequest is the body of POST /api/chart/visibility.
type VisibilityRequest struct {
	Key     string `json:"key" binding:"required"`
	Visible *bool  `json:"visible" binding:"required"`
}

func (s *Server) submit(c *gin.Context) {
	var req LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	resp, err := s.term.Submit(c.Request.Context(), req.Line)
	switch {
	case errors.Is(err, terminal.ErrClosed):
		abortWithError(c, http.StatusServiceUnavailable, "CLOSED", err.Error())
		return
	case err != nil:
		abortWithError(c, http.StatusRequestTimeout, "CANCELLED", err.Error())
		return
	}
	if resp.Redraw {
		// the crosshair belongs to the previous chart
		s.crosshair.SnapshotAt(nil, nil)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) complete(c *gin.Context) {
	c.JSON(http.StatusOK, LineResponse{Line: s.term.Complete(c.Query("line"))})
}

func (s *Server) historyUp(c *gin.Context) {
	c.JSON(http.StatusOK, LineResponse{Line: s.term.HistoryUp()})
}

func (s *Server) historyDown(c *gin.Context) {
	c.JSON(http.StatusOK, LineResponse{Line: s.term.HistoryDown()})
}

func (s *Server) output(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"lines": s.term.Output()})
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.term.State())
}

func (s *Server) setCurrency(c *gin.Context) {
	var req CurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := s.term.SetCurrency(req.Currency); err != nil {
		abortWithError(c, http.StatusBadRequest, "UNKNOWN_CURRENCY", err.Error())
		return
	}
	c.JSON(http.StatusOK, s.term.State())
}

func (s *Server) chart(c *gin.Context) {
	ch, err := s.term.Chart()
	if errors.Is(err, fundterm.ErrUnknownCurrency) {
		abortWithError(c, http.StatusBadRequest, "UNKNOWN_CURRENCY", err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("build chart")
		abortWithError(c, http.StatusInternalServerError, "CHART_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"chart": ch, "summary": chart.Summary(ch)})
}

func (s *Server) setVisibility(c *gin.Context) {
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	s.term.SetVisibility(req.Key, *req.Visible)
	// the snapshot may show a line that is now hidden
	s.crosshair.SnapshotAt(nil, nil)
	s.chart(c)
}

func (s *Server) table(c *gin.Context) {
	st := s.term.State()
	if !st.TableVisible {
		c.JSON(http.StatusOK, gin.H{"visible": false, "transactions": []fundterm.Transaction{}})
		return
	}
	rows := s.term.Pipeline().Table(st)
	if rows == nil {
		rows = []fundterm.Transaction{}
	}
	c.JSON(http.StatusOK, gin.H{"visible": true, "range": st.TableDateRange, "transactions": rows})
}

// dateParam parses the query parameter key.
func dateParam(c *gin.Context, key string) (date.Date, bool) {
	d, err := date.Parse(c.Query(key))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return date.Date{}, false
	}
	return d, true
}

func (s *Server) snapshot(c *gin.Context) {
	if c.Query("date") == "" {
		c.JSON(http.StatusOK, gin.H{"snapshot": s.crosshair.Current()})
		return
	}
	on, ok := dateParam(c, "date")
	if !ok {
		return
	}
	ch, err := s.term.Chart()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "CHART_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": s.crosshair.SnapshotAt(&on, ch)})
}

func (s *Server) clearSnapshot(c *gin.Context) {
	s.crosshair.SnapshotAt(nil, nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) rangeSummary(c *gin.Context) {
	from, ok := dateParam(c, "from")
	if !ok {
		return
	}
	to, ok := dateParam(c, "to")
	if !ok {
		return
	}
	ch, err := s.term.Chart()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "CHART_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": crosshair.RangeSummary(ch, from, to)})
}

// refresh reloads the store. The response tells whether the chart shown when the
// refresh started is still the active one.
func (s *Server) refresh(c *gin.Context) {
	if s.loader == nil {
		abortWithError(c, http.StatusNotImplemented, "NO_LOADER", "No data source configured")
		return
	}
	gen := s.term.Generation()
	err := s.loader.Refresh(c.Request.Context())
	if errors.Is(err, context.Canceled) {
		abortWithError(c, http.StatusRequestTimeout, "CANCELLED", err.Error())
		return
	}
	current := s.term.Apply(gen, func(*session.State) {})
	resp := gin.H{"current": current}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
