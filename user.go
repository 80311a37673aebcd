package chatadmin

// User is a platform account. The username is derived once from the full
// name and email at creation time and never regenerated.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	Username string `json:"username"`
}

// NotificationSummary aggregates a user's unread state across their
// subscriptions. It is recomputed on every query, never stored.
type NotificationSummary struct {
	Alert  bool `json:"alert"`
	Unread int  `json:"unread"`
}
