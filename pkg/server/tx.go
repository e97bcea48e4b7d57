package server

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"bundlenet/pkg/log"
	"bundlenet/pkg/router"
)

// TxRequest is the HTTP carrier of one mutating call. In a chain deployment
// the sender and funds come from the verified transaction; here the embedding
// host is trusted to have authenticated them.
type TxRequest struct {
	Sender  string          `json:"sender"`
	Funds   uint64          `json:"funds"`
	Entropy []byte          `json:"entropy,omitempty"`
	Request json.RawMessage `json:"request"`
}

func (s *Server) handleTx(ctx echo.Context) error {
	var req TxRequest
	if err := ctx.Bind(&req); err != nil {
		log.Error().Err(err).Msg("Malformed tx body")
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}

	env := router.Env{
		Sender:  req.Sender,
		Funds:   req.Funds,
		Clock:   s.nextClock(),
		Entropy: req.Entropy,
	}
	if len(env.Entropy) == 0 {
		env.Entropy = entropy()
	}

	resp := s.router.Execute(env, req.Request)
	return ctx.JSON(statusOf(resp), resp)
}

// statusOf maps the wire error kind onto an HTTP status. The response body is
// the authoritative error; the status is a convenience for generic clients.
func statusOf(resp router.Response) int {
	if resp.Err == nil {
		return http.StatusOK
	}
	switch resp.Err.Kind {
	case router.KindValidation:
		return http.StatusBadRequest
	case router.KindConflict:
		return http.StatusConflict
	case router.KindNotFound:
		return http.StatusNotFound
	case router.KindUnauthorized, router.KindAuthFailed:
		return http.StatusForbidden
	case router.KindPaymentMismatch, router.KindSealed:
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}
