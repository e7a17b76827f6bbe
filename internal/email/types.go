package email

// Email is a single outbound message.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData feeds the HTML templates.
type TemplateData map[string]interface{}

// Provider sends transactional mail (verification, etc.).
type Provider interface {
	// Send delivers a fully built message
	Send(email *Email) error

	// SendVerification sends the account verification message
	SendVerification(to string, token string) error

	// Validate checks the provider configuration
	Validate() error

	// Close releases provider resources
	Close() error
}

// TemplateRenderer renders named HTML templates.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}
