package domain

import "time"

// OrderStatus is the status enum returned by the order collaborator.
type OrderStatus string

// Known order statuses.
const (
	OrderDelivered OrderStatus = "DELIVERED"
	OrderInTransit OrderStatus = "IN_TRANSIT"
	OrderNotFound  OrderStatus = "NOT_FOUND"
)

// IncidentSnapshot is the record synthesized for high-risk intents and
// handed to the ticketing collaborator.
type IncidentSnapshot struct {
	UserID    string            `json:"user_id"`
	Role      UserRole          `json:"role,omitempty"`
	Intent    Intent            `json:"intent"`
	Question  string            `json:"question"`
	Signals   map[string]string `json:"signals,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// IncidentRecord is a snapshot after the ticketing collaborator accepted it.
type IncidentRecord struct {
	ID       string           `json:"incident_id"`
	Snapshot IncidentSnapshot `json:"snapshot"`
}
