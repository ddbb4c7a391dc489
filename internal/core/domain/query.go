package domain

// UserRole identifies the kind of field worker asking.
type UserRole string

// Known roles.
const (
	RoleDriver      UserRole = "driver"
	RoleGroupLeader UserRole = "group_leader"
)

// GeoPoint is an optional device location.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RequestContext carries request-scoped signals sent by the client.
type RequestContext struct {
	Region        string    `json:"region,omitempty"`
	ClientVersion string    `json:"client_version,omitempty"`
	Geo           *GeoPoint `json:"geo,omitempty"`
}

// Query is a single incoming question. It is immutable once received.
type Query struct {
	Text    string         `json:"text"`
	UserID  string         `json:"user_id"`
	Role    UserRole       `json:"role"`
	Context RequestContext `json:"context"`
}

// ClassificationResult is produced once per query by the classifier adapter.
type ClassificationResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Unclassified is the result used whenever the classifier cannot answer.
var Unclassified = ClassificationResult{Intent: IntentUnknown, Confidence: 0}
