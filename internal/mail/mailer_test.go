package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PicksMailerByHost(t *testing.T) {
	_, ok := New(SMTPConfig{}).(LogMailer)
	assert.True(t, ok)

	_, ok = New(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}).(*SMTPMailer)
	assert.True(t, ok)
}

func TestLogMailer_Send(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), "a@b.com", "s", "<p>x</p>"))
}

func TestSMTPMailer_RejectsBadAddress(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 2525, From: "noreply@example.com"})
	err := m.Send(context.Background(), "not an address", "s", "body")
	assert.Error(t, err)
}

func TestResetPasswordBody(t *testing.T) {
	body, err := ResetPasswordBody("bob<script>", "http://localhost:3000/change-password/abc")
	require.NoError(t, err)
	assert.Contains(t, body, `href="http://localhost:3000/change-password/abc"`)
	assert.Contains(t, body, "bob&lt;script&gt;")
}
