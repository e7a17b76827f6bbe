package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// verificationTemplate is registered by default so the auth flow works
// without a templates directory on disk.
const verificationTemplate = `<html>
<body>
  <h2>Welcome to Gatherly</h2>
  <p>Confirm your email address to start planning with friends:</p>
  <p><a href="{{.VerifyURL}}">Verify my email</a></p>
  <p>If you did not create this account, ignore this message.</p>
</body>
</html>`

// TemplateManager implements TemplateRenderer with an in-memory
// template registry, safe for concurrent use.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	// Registration of the embedded default cannot fail.
	_ = tm.AddTemplate("verification", verificationTemplate)
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
