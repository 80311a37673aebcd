package chatadmin

// Identity is an authenticated principal on the chat platform. The admin
// identity lives for the process's session; delegated identities are minted
// per call and discarded.
type Identity struct {
	UserID    string
	AuthToken string
}

// Zero reports whether the identity holds no credentials.
func (id Identity) Zero() bool {
	return id.UserID == "" && id.AuthToken == ""
}

// Headers renders the identity as the platform's auth headers. Headers come
// from exactly one identity; they are never assembled from mismatched
// userId/token pairs.
func (id Identity) Headers() map[string]string {
	return map[string]string{
		"X-Auth-Token": id.AuthToken,
		"X-User-Id":    id.UserID,
	}
}
