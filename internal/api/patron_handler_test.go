package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/sympac-api/internal/domain"
	"github.com/phrazzld/sympac-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPatronService mocks service.PatronService
type MockPatronService struct {
	mock.Mock
}

func (m *MockPatronService) Login(ctx context.Context, creds domain.Credentials) error {
	return m.Called(ctx, creds).Error(0)
}

func (m *MockPatronService) ResetPin(ctx context.Context, identifier string) error {
	return m.Called(ctx, identifier).Error(0)
}

func (m *MockPatronService) ChangePin(
	ctx context.Context,
	creds domain.Credentials,
	newPin string,
	callback bool,
) error {
	return m.Called(ctx, creds, newPin, callback).Error(0)
}

func (m *MockPatronService) ModifyContactInfo(
	ctx context.Context,
	creds domain.Credentials,
	info domain.ContactInfo,
) error {
	return m.Called(ctx, creds, info).Error(0)
}

func (m *MockPatronService) Register(ctx context.Context, reg domain.Registration) (string, error) {
	args := m.Called(ctx, reg)
	return args.String(0), args.Error(1)
}

func (m *MockPatronService) GetContactInfo(
	ctx context.Context,
	creds domain.Credentials,
) (domain.ContactInfo, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(domain.ContactInfo), args.Error(1)
}

func (m *MockPatronService) Acquire(ctx context.Context, creds domain.Credentials) error {
	return m.Called(ctx, creds).Error(0)
}

var _ service.PatronService = (*MockPatronService)(nil)

var (
	anyCtx = mock.Anything
	creds  = domain.Credentials{Identifier: "21000001", PIN: "1234"}
)

func newRouter(svc service.PatronService) http.Handler {
	r := chi.NewRouter()
	NewPatronHandler(svc, nil).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{"success", nil, http.StatusOK, `{"message":"authenticated"}`},
		{"rejected", domain.ErrUnauthorized, http.StatusUnauthorized, `{"error":"login failed"}`},
		{
			"upstream failure",
			&service.WorkflowError{Operation: service.OpLogin, Step: "login", Err: domain.ErrUpstream},
			http.StatusInternalServerError,
			`{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPatronService{}
			svc.On("Login", anyCtx, creds).Return(tt.serviceErr)

			rec := do(t, newRouter(svc), "POST", "/login", `{"code":"21000001","pin":"1234"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

// Requests missing a required field are rejected before the service runs.
func TestMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantBody string
	}{
		{
			name:     "login without pin",
			method:   "POST",
			target:   "/login",
			body:     `{"code":"21000001"}`,
			wantBody: `{"error":"missing required fields: pin"}`,
		},
		{
			name:     "login with empty body",
			method:   "POST",
			target:   "/login",
			wantBody: `{"error":"missing required fields: code,pin"}`,
		},
		{
			name:     "pin reset",
			method:   "POST",
			target:   "/pin_reset",
			body:     `{}`,
			wantBody: `{"error":"missing required fields: code"}`,
		},
		{
			name:   "modify contact info",
			method: "POST",
			target: "/modify_contact_info",
			body: `{"code":"21000001","pin":"1234","address1_street":"","address1_city":"",` +
				`"address1_zip":"","telephone":"","location_code":""}`,
			wantBody: `{"error":"missing required fields: address1_state,email"}`,
		},
		{
			name:     "register",
			method:   "POST",
			target:   "/register",
			body:     `{"first_name":"Ada","last_name":"Lovelace","pin":"1234"}`,
			wantBody: `{"error":"missing required fields: middle_name,birthdate,address1_street,address1_city,address1_state,address1_zip,address2_street,address2_city,address2_state,address2_zip,email,telephone"}`,
		},
		{
			name:     "change pin",
			method:   "POST",
			target:   "/change_pin",
			body:     `{"code":"21000001","pin":"1234"}`,
			wantBody: `{"error":"missing required fields: new_pin"}`,
		},
		{
			name:     "contact info",
			method:   "GET",
			target:   "/contact_info?pin=1234",
			wantBody: `{"error":"missing required fields: code"}`,
		},
		{
			name:     "acquire",
			method:   "POST",
			target:   "/acquire",
			body:     `{"code":"21000001","pin":"1234","title":"Dune"}`,
			wantBody: `{"error":"missing required fields: author,publisher,isbn,type,subject"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPatronService{}

			rec := do(t, newRouter(svc), tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Empty(t, svc.Calls, "service must not be called")
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	svc := &MockPatronService{}

	rec := do(t, newRouter(svc), "POST", "/login", `{"code":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request format"}`, rec.Body.String())
	assert.Empty(t, svc.Calls)
}

func TestResetPin(t *testing.T) {
	svc := &MockPatronService{}
	svc.On("ResetPin", anyCtx, "21000001").Return(nil)

	rec := do(t, newRouter(svc), "POST", "/pin_reset", `{"code":"21000001"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pin reset"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestModifyContactInfo(t *testing.T) {
	svc := &MockPatronService{}
	svc.On("ModifyContactInfo", anyCtx, creds, domain.ContactInfo{
		Email:        "ada@example.org",
		LocationCode: "west",
	}).Return(nil)

	body := `{"code":"21000001","pin":"1234","address1_street":"","address1_city":"","address1_state":"",` +
		`"address1_zip":"","email":"ada@example.org","telephone":"","location_code":"west"}`
	rec := do(t, newRouter(svc), "POST", "/modify_contact_info", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"contact info updated"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestRegister(t *testing.T) {
	svc := &MockPatronService{}
	svc.On("Register", anyCtx, domain.Registration{
		FirstName:  "Ada",
		MiddleName: "",
		LastName:   "Lovelace",
		BirthDate:  "1815-12-10",
		Address1:   domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701"},
		Address2:   domain.Address{},
		Email:      "ada@example.org",
		Telephone:  "555-0100",
		PIN:        "1234",
	}).Return("21000099", nil)

	body := `{"first_name":"Ada","middle_name":"","last_name":"Lovelace","birthdate":"1815-12-10",` +
		`"address1_street":"1 Main St","address1_city":"Springfield","address1_state":"IL","address1_zip":"62701",` +
		`"address2_street":"","address2_city":"","address2_state":"","address2_zip":"",` +
		`"email":"ada@example.org","telephone":"555-0100","pin":"1234"}`
	rec := do(t, newRouter(svc), "POST", "/register", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"patron registered","barcode":"21000099"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestChangePin(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		callback bool
	}{
		{"authenticated", "/change_pin", false},
		{"callback", "/change_pin?callback=1", true},
		{"empty callback parameter", "/change_pin?callback=", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPatronService{}
			svc.On("ChangePin", anyCtx, creds, "5678", tt.callback).Return(nil)

			rec := do(t, newRouter(svc), "POST", tt.target, `{"code":"21000001","pin":"1234","new_pin":"5678"}`)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"message":"pin changed"}`, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestGetContactInfo(t *testing.T) {
	svc := &MockPatronService{}
	svc.On("GetContactInfo", anyCtx, creds).Return(domain.ContactInfo{
		Street:       "1 Main St",
		City:         "Springfield",
		State:        "IL",
		Zip:          "62701",
		Email:        "ada@example.org",
		Telephone:    "555-0100",
		LocationCode: "MAIN",
	}, nil)

	rec := do(t, newRouter(svc), "GET", "/contact_info?code=21000001&pin=1234", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"address1_street": "1 Main St",
		"address1_city": "Springfield",
		"address1_state": "IL",
		"address1_zip": "62701",
		"email": "ada@example.org",
		"telephone": "555-0100",
		"location_code": "MAIN"
	}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestGetContactInfoEmptyPin(t *testing.T) {
	svc := &MockPatronService{}
	svc.On("GetContactInfo", anyCtx, domain.Credentials{Identifier: "21000001"}).
		Return(domain.ContactInfo{}, domain.ErrUnauthorized)

	rec := do(t, newRouter(svc), "GET", "/contact_info?code=21000001&pin=", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"login failed"}`, rec.Body.String())
}

func TestAcquire(t *testing.T) {
	body := `{"code":"21000001","pin":"1234","author":"Herbert","title":"Dune","publisher":"Chilton",` +
		`"isbn":"9780441013593","type":"book","subject":"fiction"}`

	t.Run("valid credentials", func(t *testing.T) {
		svc := &MockPatronService{}
		svc.On("Acquire", anyCtx, creds).Return(domain.ErrNotImplemented)

		rec := do(t, newRouter(svc), "POST", "/acquire", body)

		assert.Equal(t, http.StatusNotImplemented, rec.Code)
		assert.JSONEq(t, `{"error":"not implemented yet"}`, rec.Body.String())
	})

	t.Run("rejected credentials", func(t *testing.T) {
		svc := &MockPatronService{}
		svc.On("Acquire", anyCtx, creds).Return(domain.ErrUnauthorized)

		rec := do(t, newRouter(svc), "POST", "/acquire", body)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"login failed"}`, rec.Body.String())
	})
}
