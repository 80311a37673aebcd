// Package transport issues signed HTTP requests against the chat platform's
// REST API and decodes the JSON responses.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hivelock/chatadmin"
)

// DefaultTimeout bounds a single round trip. There are no retries; failures
// are terminal per call and callers decide whether to try again.
const DefaultTimeout = 10 * time.Second

const apiPrefix = "/api/v1/"

// Client performs round trips against a platform base URL.
type Client struct {
	base string
	http *http.Client
}

// New wraps a base URL with a client using sane HTTP defaults.
func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: DefaultTimeout},
	}
}

// Call sends one request to the named endpoint (e.g. "channels.create") and
// decodes the response into out when out is non-nil. A nil ident sends the
// request unauthenticated; otherwise the identity's headers are attached.
// Any non-200 status is returned as a *StatusError carrying the raw body.
func (c *Client) Call(ctx context.Context, method, endpoint string, ident *chatadmin.Identity, body interface{}, query url.Values, out interface{}) error {
	callID := uuid.New().String()

	target := c.base + apiPrefix + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode request for %s", endpoint)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return errors.Wrapf(err, "build request for %s", endpoint)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ident != nil {
		for k, v := range ident.Headers() {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logrus.WithFields(logrus.Fields{"call": callID, "endpoint": endpoint}).Errorf("Fail %s: %v", endpoint, err)
		return errors.Wrapf(err, "call %s", endpoint)
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read response from %s", endpoint)
	}

	if resp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{"call": callID, "endpoint": endpoint, "status": resp.StatusCode}).Errorf("Fail %s: %s", endpoint, data)
		return &StatusError{Status: resp.StatusCode, Body: string(data)}
	}

	logrus.WithFields(logrus.Fields{"call": callID, "endpoint": endpoint, "status": resp.StatusCode}).Infof("%s ok", endpoint)

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}
