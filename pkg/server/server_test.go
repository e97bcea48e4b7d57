package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
)

type ServerTestSuite struct {
	suite.Suite
	server *Server
}

// SetupTest runs before each test
func (s *ServerTestSuite) SetupTest() {
	store := kvstore.NewMemory()
	cfg := config.Default()
	cfg.Admin = "admin-addr"
	cfg.Seed = "server-test-seed"
	s.Require().NoError(store.Update(func(txn kvstore.Txn) error {
		return config.Init(txn, cfg)
	}))

	s.server = New(store, "test-v1.0.0")
	s.server.setupRoutes()
}

func (s *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.server.echo.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder) map[string]interface{} {
	var m map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusOK, rec.Code)

	body := s.decode(rec)
	s.Equal("ok", body["status"])
	s.Equal("test-v1.0.0", body["version"])
}

func (s *ServerTestSuite) TestTxRoundTrip() {
	rec := s.do(http.MethodPost, "/v1/tx",
		`{"sender":"alice-addr","request":{"type":"register","handle":"alice"}}`)
	s.Equal(http.StatusOK, rec.Code)

	body := s.decode(rec)
	s.Nil(body["error"])

	rec = s.do(http.MethodPost, "/v1/query",
		`{"request":{"type":"handle_available","handle":"alice"}}`)
	s.Equal(http.StatusOK, rec.Code)
	result := s.decode(rec)["result"].(map[string]interface{})
	s.Equal(false, result["available"])
}

func (s *ServerTestSuite) TestTxErrorStatus() {
	s.do(http.MethodPost, "/v1/tx",
		`{"sender":"alice-addr","request":{"type":"register","handle":"alice"}}`)

	rec := s.do(http.MethodPost, "/v1/tx",
		`{"sender":"bob-addr","request":{"type":"register","handle":"alice"}}`)
	s.Equal(http.StatusConflict, rec.Code)

	body := s.decode(rec)
	errObj := body["error"].(map[string]interface{})
	s.Equal("conflict", errObj["kind"])
}

func (s *ServerTestSuite) TestPaymentRequiredStatus() {
	s.do(http.MethodPost, "/v1/tx",
		`{"sender":"alice-addr","request":{"type":"register","handle":"alice"}}`)
	s.do(http.MethodPost, "/v1/tx",
		`{"sender":"alice-addr","request":{"type":"create_bundle","public_message":"m","contents_text":"x","cost":50}}`)

	rec := s.do(http.MethodPost, "/v1/tx",
		`{"sender":"bob-addr","funds":10,"request":{"type":"unlock_bundle","bundle_id":1}}`)
	s.Equal(http.StatusPaymentRequired, rec.Code)

	rec = s.do(http.MethodPost, "/v1/tx",
		`{"sender":"bob-addr","funds":50,"request":{"type":"unlock_bundle","bundle_id":1}}`)
	s.Equal(http.StatusOK, rec.Code)
	result := s.decode(rec)["result"].(map[string]interface{})
	s.Equal("x", result["text"])
}

func (s *ServerTestSuite) TestMalformedBody() {
	rec := s.do(http.MethodPost, "/v1/tx", `{not json`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestClockIncreasesPerTx() {
	// Two bundles created back to back must carry distinct timestamps.
	s.do(http.MethodPost, "/v1/tx",
		`{"sender":"alice-addr","request":{"type":"register","handle":"alice"}}`)
	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodPost, "/v1/tx",
			fmt.Sprintf(`{"sender":"alice-addr","request":{"type":"create_bundle","public_message":"m%d","contents_text":"x","cost":0}}`, i))
		s.Equal(http.StatusOK, rec.Code)
	}

	rec := s.do(http.MethodPost, "/v1/query", `{"request":{"type":"list_bundles","handle":"alice"}}`)
	// Decode with json.Number: created_at is a nanosecond-scale uint64 and
	// float64 cannot represent adjacent values at that magnitude.
	dec := json.NewDecoder(strings.NewReader(rec.Body.String()))
	dec.UseNumber()
	var m map[string]interface{}
	s.Require().NoError(dec.Decode(&m))
	result := m["result"].(map[string]interface{})
	bundles := result["bundles"].([]interface{})
	s.Require().Len(bundles, 2)
	first, err := bundles[0].(map[string]interface{})["created_at"].(json.Number).Int64()
	s.Require().NoError(err)
	second, err := bundles[1].(map[string]interface{})["created_at"].(json.Number).Int64()
	s.Require().NoError(err)
	s.Greater(first, second)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
