package ilsws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/sympac-api/internal/config"
	"github.com/phrazzld/sympac-api/internal/domain"
)

// Header names required by ILSWS.
const (
	HeaderOriginatingAppID = "sd-originating-app-id"
	HeaderClientID         = "x-sirs-clientID"
	HeaderSessionToken     = "x-sirs-sessionToken"
)

// ResetTokenPlaceholder is replaced by ILSWS with a one-time token when it
// builds the reset link sent to the patron.
const ResetTokenPlaceholder = "<RESET_PIN_TOKEN>"

const maxResponseBodyBytes int64 = 10 << 20

// baseIncludeFields are always requested when fetching a patron.
var baseIncludeFields = []string{
	"barcode",
	"birthDate",
	"firstName",
	"middleName",
	"lastName",
	"library",
	"address1",
}

// HTTPDoer is the subset of *http.Client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues typed calls to ILSWS.
type Client struct {
	baseURL  string
	clientID string
	appID    string
	http     HTTPDoer
	logger   *slog.Logger
}

// NewClient creates a Client for the configured service. A nil doer uses a
// plain *http.Client, so only the transport's default timeouts apply.
func NewClient(cfg config.ILSWSConfig, doer HTTPDoer, logger *slog.Logger) *Client {
	if doer == nil {
		doer = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  cfg.BaseURL(),
		clientID: cfg.ClientID,
		appID:    cfg.OriginatingAppID,
		http:     doer,
		logger:   logger.With("component", "ilsws_client"),
	}
}

// RegisterResult is the part of the register response the gateway uses.
type RegisterResult struct {
	Barcode string `json:"barcode"`
	Key     string `json:"key"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionToken string `json:"sessionToken"`
	PatronKey    string `json:"patronKey"`
}

type resetPinRequest struct {
	Barcode     string `json:"barcode"`
	ResetPinURL string `json:"resetPinUrl"`
}

type changePinRequest struct {
	NewPin     string `json:"newPin"`
	CurrentPin string `json:"currentPin"`
}

type changePinWithTokenRequest struct {
	NewPin        string `json:"newPin"`
	ResetPinToken string `json:"resetPinToken"`
}

// Login authenticates a patron. A credential rejection is reported as
// domain.ErrUnauthorized.
func (c *Client) Login(ctx context.Context, identifier, pin string) (domain.Session, error) {
	const op = "login"

	req, err := c.newRequest(ctx, op, http.MethodPost, "/user/patron/login", "", loginRequest{
		Login:    identifier,
		Password: pin,
	})
	if err != nil {
		return domain.Session{}, err
	}

	var resp loginResponse
	if err := c.call(op, req, &resp); err != nil {
		return domain.Session{}, err
	}
	if resp.SessionToken == "" || resp.PatronKey == "" {
		return domain.Session{}, &Error{
			Op:   op,
			Kind: domain.ErrUpstream,
			Err:  errors.New("response missing session token or patron key"),
		}
	}

	return domain.Session{Token: resp.SessionToken, PatronKey: resp.PatronKey}, nil
}

// FetchPatron reads the patron record identified by key, including the
// given fields.
func (c *Client) FetchPatron(
	ctx context.Context,
	session domain.Session,
	key string,
	includeFields []string,
) (*domain.PatronRecord, error) {
	const op = "fetch patron"

	query := ""
	if len(includeFields) > 0 {
		escaped := make([]string, len(includeFields))
		for i, f := range includeFields {
			escaped[i] = url.QueryEscape(f)
		}
		// ILSWS expects a literal comma separated list.
		query = "includeFields=" + strings.Join(escaped, ",")
	}

	req, err := c.newRequest(ctx, op, http.MethodGet, "/user/patron/key/"+url.PathEscape(key), query, nil)
	if err != nil {
		return nil, err
	}
	withSession(req, session)

	var rec domain.PatronRecord
	if err := c.call(op, req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdatePatron replaces the patron record addressed by rec.Key.
func (c *Client) UpdatePatron(
	ctx context.Context,
	session domain.Session,
	rec *domain.PatronRecord,
) (*domain.PatronRecord, error) {
	const op = "update patron"

	if rec == nil || rec.Key == "" {
		return nil, &Error{Op: op, Kind: domain.ErrUpstream, Err: domain.ErrInvalidRecord}
	}

	req, err := c.newRequest(ctx, op, http.MethodPut, "/user/patron/key/"+url.PathEscape(rec.Key), "", rec)
	if err != nil {
		return nil, err
	}
	withSession(req, session)

	var updated domain.PatronRecord
	if err := c.call(op, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RegisterPatron creates a new patron from the flat registration fields.
func (c *Client) RegisterPatron(ctx context.Context, fields map[string]any) (*RegisterResult, error) {
	const op = "register patron"

	req, err := c.newRequest(ctx, op, http.MethodPost, "/user/patron/register", "", fields)
	if err != nil {
		return nil, err
	}

	var result RegisterResult
	if err := c.call(op, req, &result); err != nil {
		return nil, err
	}
	if result.Barcode == "" {
		return nil, &Error{Op: op, Kind: domain.ErrUpstream, Err: errors.New("response missing barcode")}
	}
	return &result, nil
}

// ResetPin asks ILSWS to e-mail a reset link to the patron. resetURL must
// contain ResetTokenPlaceholder.
func (c *Client) ResetPin(ctx context.Context, identifier, resetURL string) error {
	const op = "reset pin"

	req, err := c.newRequest(ctx, op, http.MethodPost, "/user/patron/resetMyPin", "", resetPinRequest{
		Barcode:     identifier,
		ResetPinURL: resetURL,
	})
	if err != nil {
		return err
	}
	return c.call(op, req, nil)
}

// ChangePin changes the pin of the logged-in patron.
func (c *Client) ChangePin(ctx context.Context, session domain.Session, currentPin, newPin string) error {
	const op = "change pin"

	req, err := c.newRequest(ctx, op, http.MethodPost, "/user/patron/changeMyPin", "", changePinRequest{
		NewPin:     newPin,
		CurrentPin: currentPin,
	})
	if err != nil {
		return err
	}
	withSession(req, session)
	return c.call(op, req, nil)
}

// ChangePinWithResetToken changes a pin using the one-time token from a
// reset link. No session is involved.
func (c *Client) ChangePinWithResetToken(ctx context.Context, resetToken, newPin string) error {
	const op = "change pin with reset token"

	req, err := c.newRequest(ctx, op, http.MethodPost, "/user/patron/changeMyPin", "", changePinWithTokenRequest{
		NewPin:        newPin,
		ResetPinToken: resetToken,
	})
	if err != nil {
		return err
	}
	return c.call(op, req, nil)
}

// IncludeFields builds the field list requested when fetching a patron:
// the base fields, one category field per configured slot, and the
// language field when one is given.
func IncludeFields(categories []domain.CategoryDefault, languageField string) []string {
	fields := make([]string, 0, len(baseIncludeFields)+len(categories)+1)
	fields = append(fields, baseIncludeFields...)
	for _, cat := range categories {
		fields = append(fields, "category"+cat.Slot)
	}
	if languageField != "" {
		fields = append(fields, languageField)
	}
	return fields
}

// newRequest builds a request with the headers every ILSWS call carries.
func (c *Client) newRequest(
	ctx context.Context,
	op, method, path, rawQuery string,
	body any,
) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: op, Kind: domain.ErrUpstream, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &Error{Op: op, Kind: domain.ErrUpstream, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set(HeaderOriginatingAppID, c.appID)
	req.Header.Set(HeaderClientID, c.clientID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// withSession marks req as made on behalf of a logged-in patron.
func withSession(req *http.Request, session domain.Session) {
	req.Header.Set(HeaderSessionToken, session.Token)
}

// call executes req and decodes a successful response into out (when non-nil).
func (c *Client) call(op string, req *http.Request, out any) error {
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("ilsws request failed",
			"op", op,
			"method", req.Method,
			"path", req.URL.Path,
			"duration_ms", time.Since(started).Milliseconds())
		return &Error{Op: op, Kind: domain.ErrUpstream, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	c.logger.Debug("ilsws request completed",
		"op", op,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds())
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Kind: domain.ErrUpstream, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Op: op, StatusCode: resp.StatusCode, Kind: domain.ErrUpstream}
		if resp.StatusCode == http.StatusUnauthorized {
			apiErr.Kind = domain.ErrUnauthorized
		}
		var ml messageList
		if json.Unmarshal(body, &ml) == nil {
			apiErr.Messages = ml.messages()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Kind: domain.ErrUpstream, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
