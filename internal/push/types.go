package push

// Message is the wire payload accepted by the push delivery endpoint.
type Message struct {
	To       string                 `json:"to"`
	Title    string                 `json:"title"`
	Body     string                 `json:"body"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Sound    string                 `json:"sound"`
	Priority string                 `json:"priority"`
}

// Ticket is the per-message acknowledgement echoed by the endpoint.
// Status "ok" means the endpoint accepted the message for delivery; it
// is not an on-device receipt.
type Ticket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type sendResponse struct {
	Data []Ticket `json:"data"`
}

// TokenSource resolves a recipient's registered device token. An empty
// token with a nil error means the user has no registered device,
// which is a normal state rather than a failure.
type TokenSource interface {
	PushTokenFor(userID string) (string, error)
}

// Relay forwards a notification payload to the delivery endpoint.
// delivered reflects the endpoint's acknowledgement only.
type Relay interface {
	Relay(recipientID, title, body string, data map[string]interface{}) (delivered bool, err error)
}
