package rooms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/hivelock/chatadmin"
	"github.com/hivelock/chatadmin/session"
	"github.com/hivelock/chatadmin/transport"
)

// NameChecker reports whether a room name is free across both kinds by
// issuing a filtered list query per kind.
type NameChecker struct {
	tr   *transport.Client
	sess *session.Session

	// Strict routes the channel half of the check at channels.list. The
	// default keeps the long-standing behavior of querying groups.list for
	// both halves; see DESIGN.md before flipping this.
	Strict bool
}

// NewNameChecker builds a checker in the default (non-strict) mode.
func NewNameChecker(tr *transport.Client, sess *session.Session) *NameChecker {
	return &NameChecker{tr: tr, sess: sess}
}

type listEnvelope struct {
	Total int `json:"total"`
}

// IsUnique returns true only when both list queries report a zero total.
// Any query failure makes the name indeterminate and reports not-unique.
func (c *NameChecker) IsUnique(ctx context.Context, name string) (bool, error) {
	filter, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return false, errors.Wrap(err, "encode name filter")
	}
	params := url.Values{"query": []string{string(filter)}}

	groupTotal, err := c.total(ctx, "groups.list", params)
	if err != nil {
		return false, err
	}

	channelEndpoint := "groups.list"
	if c.Strict {
		channelEndpoint = "channels.list"
	}
	channelTotal, err := c.total(ctx, channelEndpoint, params)
	if err != nil {
		return false, err
	}

	return groupTotal == 0 && channelTotal == 0, nil
}

func (c *NameChecker) total(ctx context.Context, endpoint string, params url.Values) (int, error) {
	var env listEnvelope
	admin := c.sess.Admin()
	if err := c.tr.Call(ctx, http.MethodGet, endpoint, &admin, nil, params, &env); err != nil {
		return 0, chatadmin.E(transport.Classify(err), endpoint, err)
	}
	return env.Total, nil
}
