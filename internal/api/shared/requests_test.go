package shared

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/sympac-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type target struct {
		Name *string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    *string
	}{
		{name: "valid json", body: `{"name":"test"}`, want: strPtr("test")},
		{name: "invalid json", body: `{"name":"test",}`, wantErr: true},
		{name: "empty body", body: ""},
		{name: "null field", body: `{"name":null}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))

			var got target
			err := DecodeJSON(req, &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Name)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Code  *string `json:"code"  validate:"required"`
		PIN   *string `json:"pin"   validate:"required"`
		Email *string `json:"email" validate:"required"`
	}

	t.Run("all present", func(t *testing.T) {
		empty := ""
		err := ValidateRequest(request{Code: strPtr("1"), PIN: strPtr("2"), Email: &empty})
		assert.NoError(t, err, "empty strings count as present")
	})

	t.Run("missing fields in declaration order", func(t *testing.T) {
		err := ValidateRequest(request{PIN: strPtr("2")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Equal(t, "missing required fields: code,email", err.Error())

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, []string{"code", "email"}, vErr.Fields)
	})

	t.Run("query tag names", func(t *testing.T) {
		type query struct {
			Code *string `query:"code" validate:"required"`
		}
		err := ValidateRequest(query{})
		assert.EqualError(t, err, "missing required fields: code")
	})
}

func strPtr(s string) *string {
	return &s
}
