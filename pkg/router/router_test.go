package router

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
)

type RouterSuite struct {
	suite.Suite
	store  *kvstore.MemoryStore
	router *Router
	clock  uint64
}

func (s *RouterSuite) SetupTest() {
	s.store = kvstore.NewMemory()
	s.router = New(s.store)
	s.clock = 1000

	cfg := config.Default()
	cfg.Admin = "admin-addr"
	cfg.Seed = "unit-test-seed"
	s.Require().NoError(s.store.Update(func(txn kvstore.Txn) error {
		return config.Init(txn, cfg)
	}))
}

func (s *RouterSuite) tx(sender string, funds uint64, body string) Response {
	s.clock++
	env := Env{Sender: sender, Funds: funds, Clock: s.clock, Entropy: []byte("entropy")}
	return s.router.Execute(env, []byte(body))
}

func (s *RouterSuite) mustTx(sender string, funds uint64, body string) Response {
	resp := s.tx(sender, funds, body)
	s.Require().Nil(resp.Err, "unexpected error: %v", resp.Err)
	return resp
}

func (s *RouterSuite) query(body string) Response {
	return s.router.Query([]byte(body))
}

// resultJSON round-trips the result through JSON so assertions see the wire
// shape, not internal structs.
func (s *RouterSuite) resultJSON(resp Response) map[string]interface{} {
	s.Require().Nil(resp.Err)
	raw, err := json.Marshal(resp.Result)
	s.Require().NoError(err)
	var m map[string]interface{}
	s.Require().NoError(json.Unmarshal(raw, &m))
	return m
}

func (s *RouterSuite) TestUnknownTypeRejected() {
	resp := s.tx("alice-addr", 0, `{"type":"explode"}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindValidation, resp.Err.Kind)

	resp = s.query(`{"type":"explode"}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindValidation, resp.Err.Kind)
}

func (s *RouterSuite) TestUnknownFieldRejected() {
	resp := s.tx("alice-addr", 0, `{"type":"register","handle":"alice","bogus":1}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindValidation, resp.Err.Kind)
}

func (s *RouterSuite) TestPaddingAccepted() {
	resp := s.tx("alice-addr", 0, `{"type":"register","handle":"alice","padding":"xxxxxxxxxxxxxxxx"}`)
	s.Nil(resp.Err)
}

func (s *RouterSuite) TestSenderRequired() {
	resp := s.tx("", 0, `{"type":"register","handle":"alice"}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindValidation, resp.Err.Kind)
}

func (s *RouterSuite) TestRegisterConflictKind() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
	resp := s.tx("bob-addr", 0, `{"type":"register","handle":"alice"}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindConflict, resp.Err.Kind)
}

func (s *RouterSuite) TestFailedMutationRollsBack() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)

	first := s.resultJSON(s.mustTx("alice-addr", 0,
		`{"type":"create_bundle","public_message":"one","contents_text":"x","cost":0}`))
	s.Equal(float64(1), first["bundle_id"])

	// A rejected create must not consume an id.
	resp := s.tx("alice-addr", 0,
		fmt.Sprintf(`{"type":"create_bundle","public_message":"bad","contents_text":"x","cost":%d}`,
			config.DefaultMaxCost+1))
	s.Require().NotNil(resp.Err)
	s.Equal(KindValidation, resp.Err.Kind)

	second := s.resultJSON(s.mustTx("alice-addr", 0,
		`{"type":"create_bundle","public_message":"two","contents_text":"x","cost":0}`))
	s.Equal(float64(2), second["bundle_id"])
}

func (s *RouterSuite) TestUnlockFlow() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
	s.mustTx("alice-addr", 0, `{"type":"create_bundle","public_message":"pay me","contents_text":"the secret","cost":50}`)

	resp := s.tx("bob-addr", 49, `{"type":"unlock_bundle","bundle_id":1}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindPaymentMismatch, resp.Err.Kind)

	got := s.resultJSON(s.mustTx("bob-addr", 50, `{"type":"unlock_bundle","bundle_id":1}`))
	s.Equal("the secret", got["text"])

	s.mustTx("bob-addr", 0, `{"type":"rate","bundle_id":1,"up":true}`)
	s.mustTx("bob-addr", 0, `{"type":"comment","bundle_id":1,"text":"worth it","rating":false}`)

	comments := s.resultJSON(s.query(`{"type":"list_comments","bundle_id":1}`))
	s.Len(comments["comments"], 1)
}

func (s *RouterSuite) TestSealedKind() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
	s.mustTx("alice-addr", 0, `{"type":"create_bundle","public_message":"m","contents_text":"x","cost":0}`)
	s.mustTx("alice-addr", 0, `{"type":"seal_bundle","bundle_id":1}`)

	resp := s.tx("bob-addr", 0, `{"type":"unlock_bundle","bundle_id":1}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindSealed, resp.Err.Kind)
}

func (s *RouterSuite) TestViewingKeyQueries() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
	s.mustTx("bob-addr", 0, `{"type":"register","handle":"bob"}`)
	s.mustTx("alice-addr", 0, `{"type":"follow","handle":"bob"}`)

	got := s.resultJSON(s.mustTx("alice-addr", 0, `{"type":"generate_viewing_key"}`))
	key, qok := got["viewing_key"].(string)
	s.Require().True(qok)
	s.Require().NotEmpty(key)

	following := s.resultJSON(s.query(fmt.Sprintf(
		`{"type":"list_following","address":"alice-addr","viewing_key":%q}`, key)))
	s.Equal([]interface{}{"bob"}, following["handles"])
}

func (s *RouterSuite) TestAuthFailureIsGeneric() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
	s.mustTx("alice-addr", 0, `{"type":"generate_viewing_key"}`)

	wrongKey := s.query(`{"type":"list_following","address":"alice-addr","viewing_key":"key_wrong"}`)
	noKeySet := s.query(`{"type":"list_following","address":"bob-addr","viewing_key":"key_wrong"}`)
	unknown := s.query(`{"type":"list_following","address":"ghost-addr","viewing_key":"key_wrong"}`)

	// All three cases answer with the identical well-formed value.
	s.Equal(s.resultJSON(wrongKey), s.resultJSON(noKeySet))
	s.Equal(s.resultJSON(wrongKey), s.resultJSON(unknown))
	s.Equal(map[string]interface{}{"auth_failed": true}, s.resultJSON(wrongKey))
}

func (s *RouterSuite) TestFreezeBlocksNonAdmin() {
	s.mustTx("admin-addr", 0, `{"type":"freeze"}`)

	resp := s.tx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindUnauthorized, resp.Err.Kind)

	// Queries and admin mutations keep working while frozen.
	avail := s.resultJSON(s.query(`{"type":"handle_available","handle":"alice"}`))
	s.Equal(true, avail["available"])
	s.mustTx("admin-addr", 0, `{"type":"unfreeze"}`)

	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
}

func (s *RouterSuite) TestBanBlocksMutation() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)

	resp := s.tx("alice-addr", 0, `{"type":"ban","handle":"alice"}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindUnauthorized, resp.Err.Kind)

	s.mustTx("admin-addr", 0, `{"type":"ban","handle":"alice"}`)
	resp = s.tx("alice-addr", 0, `{"type":"set_description","description":"still here"}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindUnauthorized, resp.Err.Kind)

	s.mustTx("admin-addr", 0, `{"type":"unban","handle":"alice"}`)
	s.mustTx("alice-addr", 0, `{"type":"set_description","description":"back"}`)
}

func (s *RouterSuite) TestChangeAdminNeedsThreeSubmissions() {
	for i := 0; i < 2; i++ {
		got := s.resultJSON(s.mustTx("admin-addr", 0, `{"type":"change_admin","address":"new-admin-addr"}`))
		s.Equal(false, got["changed"])
	}

	// A different candidate restarts the count.
	got := s.resultJSON(s.mustTx("admin-addr", 0, `{"type":"change_admin","address":"other-addr"}`))
	s.Equal(false, got["changed"])

	for i := 0; i < 2; i++ {
		got = s.resultJSON(s.mustTx("admin-addr", 0, `{"type":"change_admin","address":"new-admin-addr"}`))
		s.Equal(false, got["changed"])
	}
	got = s.resultJSON(s.mustTx("admin-addr", 0, `{"type":"change_admin","address":"new-admin-addr"}`))
	s.Equal(true, got["changed"])

	// The old admin has lost its powers, the new one has them.
	resp := s.tx("admin-addr", 0, `{"type":"freeze"}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindUnauthorized, resp.Err.Kind)
	s.mustTx("new-admin-addr", 0, `{"type":"freeze"}`)
}

func (s *RouterSuite) TestSetConstants() {
	resp := s.tx("alice-addr", 0, `{"type":"set_constants","limits":{"max_cost":1}}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindUnauthorized, resp.Err.Kind)

	// Partially specified limits are rejected by validation, not silently zeroed.
	resp = s.tx("admin-addr", 0, `{"type":"set_constants","limits":{"max_cost":1}}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindValidation, resp.Err.Kind)

	limits, err := json.Marshal(config.DefaultLimits())
	s.Require().NoError(err)
	s.mustTx("admin-addr", 0, fmt.Sprintf(`{"type":"set_constants","limits":%s}`, limits))
}

func (s *RouterSuite) TestRemoveBundleIsAdminOnly() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
	s.mustTx("alice-addr", 0, `{"type":"create_bundle","public_message":"m","contents_text":"x","cost":0}`)

	resp := s.tx("bob-addr", 0, `{"type":"remove_bundle","bundle_id":1}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindUnauthorized, resp.Err.Kind)

	s.mustTx("admin-addr", 0, `{"type":"remove_bundle","bundle_id":1}`)
	listing := s.resultJSON(s.query(`{"type":"list_bundles","handle":"alice"}`))
	s.Empty(listing["bundles"])
}

func (s *RouterSuite) TestGetProfileIncludesFollowerCount() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
	s.mustTx("bob-addr", 0, `{"type":"register","handle":"bob"}`)
	s.mustTx("bob-addr", 0, `{"type":"follow","handle":"alice"}`)

	profile := s.resultJSON(s.query(`{"type":"get_profile","handle":"alice"}`))
	s.Equal(float64(1), profile["follower_count"])
	s.Equal(true, profile["active"])

	resp := s.query(`{"type":"get_profile","handle":"ghost"}`)
	s.Require().NotNil(resp.Err)
	s.Equal(KindNotFound, resp.Err.Kind)
}

func (s *RouterSuite) TestGetBundleWithViewingKey() {
	s.mustTx("alice-addr", 0, `{"type":"register","handle":"alice"}`)
	s.mustTx("alice-addr", 0, `{"type":"create_bundle","public_message":"m","contents_text":"hidden","cost":5}`)
	s.mustTx("bob-addr", 5, `{"type":"unlock_bundle","bundle_id":1}`)
	got := s.resultJSON(s.mustTx("bob-addr", 0, `{"type":"generate_viewing_key"}`))
	key := got["viewing_key"].(string)

	// Without a key the public view comes back, contents withheld.
	public := s.resultJSON(s.query(`{"type":"get_bundle","bundle_id":1}`))
	s.Equal(false, public["unlocked"])
	s.Nil(public["contents"])

	// With the right key the unlocker sees contents.
	private := s.resultJSON(s.query(fmt.Sprintf(
		`{"type":"get_bundle","bundle_id":1,"address":"bob-addr","viewing_key":%q}`, key)))
	s.Equal(true, private["unlocked"])
	s.NotNil(private["contents"])

	// With a wrong key the generic sentinel comes back.
	denied := s.resultJSON(s.query(`{"type":"get_bundle","bundle_id":1,"address":"bob-addr","viewing_key":"key_bad"}`))
	s.Equal(map[string]interface{}{"auth_failed": true}, denied)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
