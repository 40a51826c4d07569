package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/cmlabs-hris/workforce-attendance/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	from string
	to   []string
	msg  string
}

type fakeTransport struct {
	failures int
	attempts int
	sent     []sentMail
}

func (f *fakeTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("connection refused")
	}
	f.sent = append(f.sent, sentMail{from: from, to: to, msg: string(msg)})
	return nil
}

func newTestService(t *testing.T, tr transport) *emailServiceImpl {
	t.Helper()
	svc, err := newEmailService("no-reply@site.test", "Site Office", tr, func(int) time.Duration { return 0 })
	require.NoError(t, err)
	return svc
}

func TestSendReviewReturned(t *testing.T) {
	tr := &fakeTransport{}
	svc := newTestService(t, tr)

	err := svc.SendReviewReturned(context.Background(), "eng@site.test", "Sami", "Dec-Jan 2024", "signature is blank", "https://app.site.test/reviews")
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)

	mail := tr.sent[0]
	assert.Equal(t, "no-reply@site.test", mail.from)
	assert.Equal(t, []string{"eng@site.test"}, mail.to)
	assert.Contains(t, mail.msg, "From: Site Office <no-reply@site.test>\r\n")
	assert.Contains(t, mail.msg, "Subject: Attendance review returned: Dec-Jan 2024\r\n")
	assert.Contains(t, mail.msg, "Hello Sami")
	assert.Contains(t, mail.msg, "signature is blank")
	assert.Contains(t, mail.msg, `href="https://app.site.test/reviews"`)
}

func TestSendReviewApproved_EscapesHTML(t *testing.T) {
	tr := &fakeTransport{}
	svc := newTestService(t, tr)

	require.NoError(t, svc.SendReviewApproved(context.Background(), "eng@site.test", "<b>Sami</b>", "Dec-Jan 2024"))
	require.Len(t, tr.sent, 1)
	assert.Contains(t, tr.sent[0].msg, "&lt;b&gt;Sami&lt;/b&gt;")
}

func TestSend_Retries(t *testing.T) {
	tr := &fakeTransport{failures: 2}
	svc := newTestService(t, tr)

	require.NoError(t, svc.SendReviewApproved(context.Background(), "eng@site.test", "Sami", "Dec-Jan 2024"))
	assert.Equal(t, 3, tr.attempts)
	assert.Len(t, tr.sent, 1)

	tr = &fakeTransport{failures: 10}
	svc = newTestService(t, tr)

	err := svc.SendReviewApproved(context.Background(), "eng@site.test", "Sami", "Dec-Jan 2024")
	assert.ErrorContains(t, err, "after 3 attempts")
	assert.Equal(t, maxRetries, tr.attempts)
	assert.Empty(t, tr.sent)
}

func TestSend_StopsRetryingWhenContextDone(t *testing.T) {
	tr := &fakeTransport{failures: 10}
	svc, err := newEmailService("no-reply@site.test", "Site Office", tr, func(int) time.Duration { return time.Hour })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = svc.SendReviewApproved(ctx, "eng@site.test", "Sami", "Dec-Jan 2024")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, tr.attempts)
}

func TestSend_SkippedWithoutTransport(t *testing.T) {
	svc, err := NewEmailService(context.Background(), config.EmailConfig{Driver: "smtp"})
	require.NoError(t, err)

	assert.NoError(t, svc.SendReviewApproved(context.Background(), "eng@site.test", "Sami", "Dec-Jan 2024"))
}

type fakeSES struct {
	input *ses.SendRawEmailInput
}

func (f *fakeSES) SendRawEmail(ctx context.Context, in *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	f.input = in
	return &ses.SendRawEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESTransport(t *testing.T) {
	api := &fakeSES{}
	svc := newTestService(t, sesTransport{client: api})

	require.NoError(t, svc.SendReviewApproved(context.Background(), "eng@site.test", "Sami", "Dec-Jan 2024"))
	require.NotNil(t, api.input)
	assert.Equal(t, "no-reply@site.test", *api.input.Source)
	assert.Equal(t, []string{"eng@site.test"}, api.input.Destinations)
	assert.Contains(t, string(api.input.RawMessage.Data), "Subject: Attendance review approved: Dec-Jan 2024\r\n")
}

func TestNewSMTPTransport(t *testing.T) {
	tr := newSMTPTransport(config.EmailConfig{Host: "smtp.site.test", Port: 2525})
	assert.Equal(t, "smtp.site.test:2525", tr.addr)
	assert.Nil(t, tr.auth)

	tr = newSMTPTransport(config.EmailConfig{Host: "smtp.site.test", Port: 587, Username: "u", Password: "p"})
	assert.NotNil(t, tr.auth)
}
