// Package router fronts the state machine: it decodes tagged request
// envelopes into a closed set of typed variants, applies the authentication
// policy of each request class, and executes every mutation inside a single
// store transaction so a failure anywhere discards the whole call.
package router

import (
	"sync"

	"github.com/rs/zerolog"

	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/log"
)

// Router dispatches requests against a store. Mutations are serialized
// through one mutex and one Update transaction per call; queries run
// concurrently against the last committed state.
type Router struct {
	mu     sync.Mutex
	store  kvstore.Store
	logger zerolog.Logger
}

func New(store kvstore.Store) *Router {
	return &Router{store: store, logger: log.With("router")}
}

// Response is the wire shape of every answer: exactly one of Result or Err.
type Response struct {
	Result interface{} `json:"result,omitempty"`
	Err    *Error      `json:"error,omitempty"`
}

func ok(result interface{}) Response {
	return Response{Result: result}
}

func fail(err error) Response {
	return Response{Err: wireError(err)}
}

// authFailed is the single generic answer for every viewing-key query that
// does not authenticate. Wrong key, no key and unknown account all produce
// this exact value, so responses carry no existence signal.
type authFailed struct {
	AuthFailed bool `json:"auth_failed"`
}

type statusResult struct {
	Status string `json:"status"`
}

var ackOK = statusResult{Status: "ok"}
