package service

import (
	"context"

	"github.com/phrazzld/sympac-api/internal/domain"
	"github.com/phrazzld/sympac-api/internal/ilsws"
	"github.com/stretchr/testify/mock"
)

// MockPatronClient mocks the PatronClient interface
type MockPatronClient struct {
	mock.Mock
}

func (m *MockPatronClient) Login(ctx context.Context, identifier, pin string) (domain.Session, error) {
	args := m.Called(ctx, identifier, pin)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockPatronClient) FetchPatron(
	ctx context.Context,
	session domain.Session,
	key string,
	includeFields []string,
) (*domain.PatronRecord, error) {
	args := m.Called(ctx, session, key, includeFields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatronRecord), args.Error(1)
}

func (m *MockPatronClient) UpdatePatron(
	ctx context.Context,
	session domain.Session,
	rec *domain.PatronRecord,
) (*domain.PatronRecord, error) {
	args := m.Called(ctx, session, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatronRecord), args.Error(1)
}

func (m *MockPatronClient) RegisterPatron(ctx context.Context, fields map[string]any) (*ilsws.RegisterResult, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ilsws.RegisterResult), args.Error(1)
}

func (m *MockPatronClient) ResetPin(ctx context.Context, identifier, resetURL string) error {
	args := m.Called(ctx, identifier, resetURL)
	return args.Error(0)
}

func (m *MockPatronClient) ChangePin(ctx context.Context, session domain.Session, currentPin, newPin string) error {
	args := m.Called(ctx, session, currentPin, newPin)
	return args.Error(0)
}

func (m *MockPatronClient) ChangePinWithResetToken(ctx context.Context, resetToken, newPin string) error {
	args := m.Called(ctx, resetToken, newPin)
	return args.Error(0)
}

// methodsCalled returns the names of the mocked methods in call order.
func (m *MockPatronClient) methodsCalled() []string {
	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}
