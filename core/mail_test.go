package core

import (
	"encoding/base64"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Conf = &Config{
		AppName:         "dartalib",
		SecretKey:       "secret",
		TestMode:        true,
		FrontendBaseURL: "https://app.test",
	}
	os.Exit(m.Run())
}

func TestEmailMessageRender(t *testing.T) {
	t.Run("body string short-circuits templating", func(t *testing.T) {
		msg := EmailMessage{BodyStr: "plain body", TemplateName: TmplPasswordReset}
		require.NoError(t, msg.Render())
		assert.Equal(t, "plain body", msg.TextContent)
		assert.Empty(t, msg.HTMLContent)
	})

	t.Run("password reset renders both parts", func(t *testing.T) {
		msg := EmailMessage{
			TemplateName: TmplPasswordReset,
			TemplateData: struct{ Name, URL string }{"Hassan", "https://app.test/password-reset?uid=x&token=y"},
		}
		require.NoError(t, msg.Render())
		assert.Contains(t, msg.TextContent, "Hello Hassan")
		assert.Contains(t, msg.TextContent, "https://app.test/password-reset?uid=x&token=y")
		assert.Contains(t, msg.HTMLContent, `<a href="https://app.test/password-reset?uid=x&amp;token=y">`)
		assert.True(t, msg.HasContent())
	})

	t.Run("maintenance alert links the frontend board", func(t *testing.T) {
		msg := EmailMessage{
			TemplateName: TmplMaintenanceAlert,
			TemplateData: struct {
				RoomNumber  string
				Description string
				Priority    string
			}{"B-12", "تسرب ماء", "high"},
		}
		require.NoError(t, msg.Render())
		assert.Contains(t, msg.TextContent, "Room B-12: تسرب ماء")
		assert.Contains(t, msg.TextContent, "https://app.test/maintenance")
		assert.Contains(t, msg.HTMLContent, "<strong>high</strong>")
	})

	t.Run("unknown template name errors", func(t *testing.T) {
		msg := EmailMessage{TemplateName: "welcome"}
		assert.Error(t, msg.Render())
	})

	t.Run("no body and no template is a no-op", func(t *testing.T) {
		msg := EmailMessage{Subject: "empty"}
		require.NoError(t, msg.Render())
		assert.False(t, msg.HasContent())
	})
}

func TestEmailMessageAttach(t *testing.T) {
	var msg EmailMessage
	require.NoError(t, msg.Attach(strings.NewReader("room inspection notes"), "notes.txt", "text/plain"))

	require.True(t, msg.HasAttachments())
	at := msg.Attachments[0]
	assert.Equal(t, "notes.txt", at.Filename)
	assert.Equal(t, "text/plain", at.ContentType)

	decoded, err := base64.StdEncoding.DecodeString(at.Content.String())
	require.NoError(t, err)
	assert.Equal(t, "room inspection notes", string(decoded))
}

func TestEmailMessageAttachDetectsContentType(t *testing.T) {
	var msg EmailMessage
	require.NoError(t, msg.Attach(strings.NewReader("<html><body>report</body></html>"), "report.html"))
	assert.Contains(t, msg.Attachments[0].ContentType, "text/html")
}
