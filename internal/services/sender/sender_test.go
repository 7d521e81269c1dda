package sender

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/studentms/studentms/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetFrom() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSendOTPEmail_Success(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := new(MockSMTPWriter)

	transport.On("GetFrom").Return("noreply@studentms.io")
	transport.On("Connect").Return(client, nil)
	client.On("Mail", "noreply@studentms.io").Return(nil)
	client.On("Rcpt", "a@b.com").Return(nil)
	client.On("Data").Return(writer, nil)
	writer.On("Write", mock.MatchedBy(func(p []byte) bool {
		body := string(p)
		return strings.Contains(body, "123456") && strings.Contains(body, "expires in 5 minutes")
	})).Return(100, nil)
	writer.On("Close").Return(nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	svc := NewSenderService(discardLogger(), transport)
	err := svc.SendOTPEmail("a@b.com", "123456", 5*time.Minute)

	assert.NoError(t, err)
	transport.AssertExpectations(t)
	client.AssertExpectations(t)
	writer.AssertExpectations(t)
}

func TestSendOTPEmail_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetFrom").Return("noreply@studentms.io")
	transport.On("Connect").Return(nil, errors.New("dial tcp: connection refused"))

	svc := NewSenderService(discardLogger(), transport)
	err := svc.SendOTPEmail("a@b.com", "123456", 5*time.Minute)

	assert.Error(t, err)
}

func TestSendOTPEmail_RcptError(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)

	transport.On("GetFrom").Return("noreply@studentms.io")
	transport.On("Connect").Return(client, nil)
	client.On("Mail", "noreply@studentms.io").Return(nil)
	client.On("Rcpt", "bad@b.com").Return(errors.New("550 mailbox unavailable"))
	client.On("Close").Return(nil)

	svc := NewSenderService(discardLogger(), transport)
	err := svc.SendOTPEmail("bad@b.com", "123456", 5*time.Minute)

	assert.Error(t, err)
}
