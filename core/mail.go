package core

import (
	"bytes"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

// Email template names.
const (
	TmplPasswordReset    = "password-reset"
	TmplMaintenanceAlert = "maintenance-alert"
)

// Template sources are compiled in: the binary ships no assets directory and
// every deployment renders the same set.
var emailTemplates = map[string]struct{ text, html string }{
	TmplPasswordReset: {
		text: `Hello {{.Data.Name}},

Follow this link to reset your password:
{{.Data.URL}}

If you did not request a reset, ignore this message.
`,
		html: `<p>Hello {{.Data.Name}},</p>
<p>Follow <a href="{{.Data.URL}}">this link</a> to reset your password.</p>
<p>If you did not request a reset, ignore this message.</p>
`,
	},
	TmplMaintenanceAlert: {
		text: `A {{.Data.Priority}} priority maintenance request was opened.

Room {{.Data.RoomNumber}}: {{.Data.Description}}

{{.FrontendBaseURL}}/maintenance
`,
		html: `<p>A <strong>{{.Data.Priority}}</strong> priority maintenance request was opened.</p>
<p>Room {{.Data.RoomNumber}}: {{.Data.Description}}</p>
<p><a href="{{.FrontendBaseURL}}/maintenance">Open the maintenance board</a></p>
`,
	},
}

var (
	textTemplates map[string]*texttmpl.Template
	htmlTemplates map[string]*htmltmpl.Template
	tmplInit      sync.Once
)

func parseTemplates() {
	textTemplates = make(map[string]*texttmpl.Template, len(emailTemplates))
	htmlTemplates = make(map[string]*htmltmpl.Template, len(emailTemplates))
	for name, src := range emailTemplates {
		textTemplates[name] = texttmpl.Must(
			texttmpl.New(name).Option("missingkey=error").Parse(src.text))
		htmlTemplates[name] = htmltmpl.Must(
			htmltmpl.New(name).Option("missingkey=error").Parse(src.html))
	}
}

type (
	Attachment struct {
		Content     *bytes.Buffer // base64-encoded
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// ContextData is the root object every email template executes against.
	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render materializes the message body. BodyStr short-circuits templating;
// otherwise TemplateName selects one of the registered templates and fills
// both the text and html parts.
func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}
	tmplInit.Do(parseTemplates)

	tt, ok := textTemplates[m.TemplateName]
	if !ok {
		return errors.Errorf("unknown email template %q", m.TemplateName)
	}
	data := ContextData{
		FrontendBaseURL: Conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}

	var buff bytes.Buffer
	if err := tt.Execute(&buff, data); err != nil {
		return errors.Wrapf(err, "rendering %s text part", m.TemplateName)
	}
	m.TextContent = buff.String()

	buff.Reset()
	if err := htmlTemplates[m.TemplateName].Execute(&buff, data); err != nil {
		return errors.Wrapf(err, "rendering %s html part", m.TemplateName)
	}
	m.HTMLContent = buff.String()
	return nil
}

func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	at := Attachment{Filename: filename, Content: &bytes.Buffer{}}
	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err := encoder.Write(content); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) AttachFile(path string, contentType ...string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.Attach(f, filepath.Base(path), contentType...)
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }
