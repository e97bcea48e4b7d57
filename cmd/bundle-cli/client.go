package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"
)

type client struct {
	baseURL string
	sender  string
	http    *retryablehttp.Client
}

func newClient(baseURL, sender string, retryMax int) *client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = retryWaitMin
	rc.RetryWaitMax = retryWaitMax
	rc.Logger = nil // Disable retryablehttp logging
	// Only retry on connection errors; server error responses are final and
	// should be shown to the user, not retried.
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if resp != nil {
			return false, nil
		}
		if err != nil {
			return true, nil //nolint:nilerr // retryablehttp reports the final error
		}
		return false, nil
	}
	return &client{baseURL: baseURL, sender: sender, http: rc}
}

type txBody struct {
	Sender  string          `json:"sender"`
	Funds   uint64          `json:"funds,omitempty"`
	Request json.RawMessage `json:"request"`
}

type queryBody struct {
	Request json.RawMessage `json:"request"`
}

func (c *client) tx(funds uint64, request interface{}) error {
	raw, err := json.Marshal(request)
	if err != nil {
		return err
	}
	if c.sender == "" {
		return fmt.Errorf("mutations require --sender")
	}
	return c.post("/v1/tx", txBody{Sender: c.sender, Funds: funds, Request: raw})
}

func (c *client) query(request interface{}) error {
	raw, err := json.Marshal(request)
	if err != nil {
		return err
	}
	return c.post("/v1/query", queryBody{Request: raw})
}

// post sends the body and pretty-prints the response to stdout. Non-2xx
// responses still carry a structured body, so it is printed either way.
func (c *client) post(path string, body interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, out, "", "  "); err != nil {
		pretty.Write(out)
	}
	fmt.Fprintln(os.Stdout, pretty.String())

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

type envelope map[string]interface{}

func (c *client) register(handle string) error {
	return c.tx(0, envelope{"type": "register", "handle": handle})
}

func (c *client) generateKey() error {
	return c.tx(0, envelope{"type": "generate_viewing_key"})
}

func (c *client) create(message, contents string, cost uint64) error {
	return c.tx(0, envelope{
		"type":           "create_bundle",
		"public_message": message,
		"contents_text":  contents,
		"cost":           cost,
	})
}

func (c *client) seal(id uint64) error {
	return c.tx(0, envelope{"type": "seal_bundle", "bundle_id": id})
}

func (c *client) unlock(id, funds uint64) error {
	return c.tx(funds, envelope{"type": "unlock_bundle", "bundle_id": id})
}

func (c *client) follow(handle string) error {
	return c.tx(0, envelope{"type": "follow", "handle": handle})
}

func (c *client) getBundle(id uint64) error {
	return c.query(envelope{"type": "get_bundle", "bundle_id": id})
}

func (c *client) listBundles(handle string) error {
	return c.query(envelope{"type": "list_bundles", "handle": handle})
}

func (c *client) listFollowing(key string) error {
	if c.sender == "" {
		return fmt.Errorf("following requires --sender")
	}
	return c.query(envelope{
		"type":        "list_following",
		"address":     c.sender,
		"viewing_key": key,
	})
}

func (c *client) getProfile(handle string) error {
	return c.query(envelope{"type": "get_profile", "handle": handle})
}
