package server

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"bundlenet/pkg/log"
)

// QueryRequest wraps one read-only request envelope.
type QueryRequest struct {
	Request json.RawMessage `json:"request"`
}

func (s *Server) handleQuery(ctx echo.Context) error {
	var req QueryRequest
	if err := ctx.Bind(&req); err != nil {
		log.Error().Err(err).Msg("Malformed query body")
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}

	resp := s.router.Query(req.Request)
	return ctx.JSON(statusOf(resp), resp)
}
