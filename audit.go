package chatadmin

import "time"

// AuditEntry records one provisioning action taken through the facade.
type AuditEntry struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Target     string    `json:"target"`
	Detail     string    `json:"detail"`
}
