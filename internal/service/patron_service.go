package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/sympac-api/internal/domain"
	"github.com/phrazzld/sympac-api/internal/fieldmap"
	"github.com/phrazzld/sympac-api/internal/ilsws"
	"github.com/phrazzld/sympac-api/internal/platform/logger"
	"github.com/phrazzld/sympac-api/internal/redact"
)

// Workflow operation names, used in errors and logs.
const (
	OpLogin             = "login"
	OpResetPin          = "reset_pin"
	OpChangePin         = "change_pin"
	OpModifyContactInfo = "modify_contact_info"
	OpRegister          = "register"
	OpGetContactInfo    = "get_contact_info"
	OpAcquire           = "acquire"
)

// Workflow step names.
const (
	stepLogin     = "login"
	stepFetch     = "fetch"
	stepApply     = "apply"
	stepUpdate    = "update"
	stepRegister  = "register"
	stepResetPin  = "reset_pin"
	stepChangePin = "change_pin"
	stepAcquire   = "acquire"
)

// PatronClient is the ILS surface used by the patron workflows.
// *ilsws.Client implements it.
type PatronClient interface {
	Login(ctx context.Context, identifier, pin string) (domain.Session, error)
	FetchPatron(
		ctx context.Context,
		session domain.Session,
		key string,
		includeFields []string,
	) (*domain.PatronRecord, error)
	UpdatePatron(ctx context.Context, session domain.Session, rec *domain.PatronRecord) (*domain.PatronRecord, error)
	RegisterPatron(ctx context.Context, fields map[string]any) (*ilsws.RegisterResult, error)
	ResetPin(ctx context.Context, identifier, resetURL string) error
	ChangePin(ctx context.Context, session domain.Session, currentPin, newPin string) error
	ChangePinWithResetToken(ctx context.Context, resetToken, newPin string) error
}

// PatronService runs the gateway's patron workflows. Each method is a fixed
// sequence of ILS calls; the first failing step aborts the rest and nothing
// already written upstream is rolled back.
type PatronService interface {
	// Login checks the patron's credentials.
	Login(ctx context.Context, creds domain.Credentials) error

	// ResetPin asks the ILS to send the patron a pin reset link.
	ResetPin(ctx context.Context, identifier string) error

	// ChangePin sets a new pin. In callback mode creds.PIN is the reset
	// token from the reset link and no login is made.
	ChangePin(ctx context.Context, creds domain.Credentials, newPin string, callback bool) error

	// ModifyContactInfo merges the non-empty fields of info into the patron record.
	ModifyContactInfo(ctx context.Context, creds domain.Credentials, info domain.ContactInfo) error

	// Register creates a patron and returns the new barcode.
	Register(ctx context.Context, reg domain.Registration) (string, error)

	// GetContactInfo reads the patron's contact details.
	GetContactInfo(ctx context.Context, creds domain.Credentials) (domain.ContactInfo, error)

	// Acquire checks credentials for an acquisition request, which is not supported yet.
	Acquire(ctx context.Context, creds domain.Credentials) error
}

// PatronServiceConfig holds the settings the workflows read.
type PatronServiceConfig struct {
	// ResetPinURL is the landing page for reset links.
	ResetPinURL string
	// Categories are injected into new registrations and requested on fetch.
	Categories []domain.CategoryDefault
	// LanguageEnabled turns on the post-registration language update.
	LanguageEnabled bool
	// LanguageField is the patron field holding the language reference.
	LanguageField string
	// LanguageDefaultKey is the language policy key set on new patrons.
	LanguageDefaultKey string
}

// patronServiceImpl implements the PatronService interface
type patronServiceImpl struct {
	client        PatronClient
	cfg           PatronServiceConfig
	includeFields []string
	logger        *slog.Logger
}

// NewPatronService creates a new PatronService.
// It returns an error if the client is nil.
func NewPatronService(client PatronClient, cfg PatronServiceConfig, log *slog.Logger) (PatronService, error) {
	if client == nil {
		return nil, errors.New("patron client cannot be nil")
	}
	if cfg.LanguageEnabled && (cfg.LanguageField == "" || cfg.LanguageDefaultKey == "") {
		return nil, errors.New("language field and default key are required when the language feature is enabled")
	}
	if log == nil {
		log = slog.Default()
	}

	languageField := ""
	if cfg.LanguageEnabled {
		languageField = cfg.LanguageField
	}

	return &patronServiceImpl{
		client:        client,
		cfg:           cfg,
		includeFields: ilsws.IncludeFields(cfg.Categories, languageField),
		logger:        log.With("component", "patron_service"),
	}, nil
}

// workflow is the state threaded through the steps of one workflow run.
// A run holds at most one session.
type workflow struct {
	operation string
	session   domain.Session
	record    *domain.PatronRecord
	log       *slog.Logger
}

func (s *patronServiceImpl) begin(ctx context.Context, operation string) *workflow {
	log := logger.FromContextOrDefault(ctx, s.logger).With("operation", operation)
	return &workflow{operation: operation, log: log}
}

// fail logs a failed step and converts the error for the caller.
func (w *workflow) fail(step string, err error) error {
	attrs := []any{
		"step", step,
		"error", redact.Error(err),
	}
	if w.session.PatronKey != "" {
		attrs = append(attrs, "patron_key", w.session.PatronKey)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		w.log.Info("patron workflow rejected credentials", attrs...)
	case errors.Is(err, domain.ErrNotImplemented):
		w.log.Info("patron workflow reached unimplemented step", attrs...)
	default:
		w.log.Error("patron workflow step failed", attrs...)
	}
	return NewWorkflowError(w.operation, step, err)
}

func (s *patronServiceImpl) login(ctx context.Context, w *workflow, identifier, pin string) error {
	session, err := s.client.Login(ctx, identifier, pin)
	if err != nil {
		return w.fail(stepLogin, err)
	}
	w.session = session
	return nil
}

func (s *patronServiceImpl) fetch(ctx context.Context, w *workflow) error {
	rec, err := s.client.FetchPatron(ctx, w.session, w.session.PatronKey, s.includeFields)
	if err != nil {
		return w.fail(stepFetch, err)
	}
	w.record = rec
	return nil
}

func (s *patronServiceImpl) update(ctx context.Context, w *workflow) error {
	if _, err := s.client.UpdatePatron(ctx, w.session, w.record); err != nil {
		return w.fail(stepUpdate, err)
	}
	return nil
}

// Login implements PatronService.
func (s *patronServiceImpl) Login(ctx context.Context, creds domain.Credentials) error {
	w := s.begin(ctx, OpLogin)
	if err := s.login(ctx, w, creds.Identifier, creds.PIN); err != nil {
		return err
	}

	w.log.Debug("patron authenticated", "patron_key", w.session.PatronKey)
	return nil
}

// ResetPin implements PatronService.
func (s *patronServiceImpl) ResetPin(ctx context.Context, identifier string) error {
	w := s.begin(ctx, OpResetPin)
	if err := s.client.ResetPin(ctx, identifier, s.resetURL()); err != nil {
		return w.fail(stepResetPin, err)
	}

	w.log.Debug("pin reset requested")
	return nil
}

// resetURL appends the token placeholder to the configured landing page.
func (s *patronServiceImpl) resetURL() string {
	sep := "?"
	if strings.Contains(s.cfg.ResetPinURL, "?") {
		sep = "&"
	}
	return s.cfg.ResetPinURL + sep + "resetPinToken=" + ilsws.ResetTokenPlaceholder
}

// ChangePin implements PatronService.
func (s *patronServiceImpl) ChangePin(
	ctx context.Context,
	creds domain.Credentials,
	newPin string,
	callback bool,
) error {
	w := s.begin(ctx, OpChangePin)

	if callback {
		if err := s.client.ChangePinWithResetToken(ctx, creds.PIN, newPin); err != nil {
			return w.fail(stepChangePin, err)
		}
		w.log.Debug("pin changed with reset token")
		return nil
	}

	if err := s.login(ctx, w, creds.Identifier, creds.PIN); err != nil {
		return err
	}
	if err := s.client.ChangePin(ctx, w.session, creds.PIN, newPin); err != nil {
		return w.fail(stepChangePin, err)
	}

	w.log.Debug("pin changed", "patron_key", w.session.PatronKey)
	return nil
}

// ModifyContactInfo implements PatronService.
func (s *patronServiceImpl) ModifyContactInfo(
	ctx context.Context,
	creds domain.Credentials,
	info domain.ContactInfo,
) error {
	w := s.begin(ctx, OpModifyContactInfo)
	patch := fieldmap.BuildPatch(info)

	if err := s.login(ctx, w, creds.Identifier, creds.PIN); err != nil {
		return err
	}
	if err := s.fetch(ctx, w); err != nil {
		return err
	}
	if err := patch.Apply(w.record); err != nil {
		return w.fail(stepApply, err)
	}
	if err := s.update(ctx, w); err != nil {
		return err
	}

	w.log.Info("patron contact info updated", "patron_key", w.session.PatronKey)
	return nil
}

// Register implements PatronService.
func (s *patronServiceImpl) Register(ctx context.Context, reg domain.Registration) (string, error) {
	w := s.begin(ctx, OpRegister)

	result, err := s.client.RegisterPatron(ctx, fieldmap.RegistrationFields(reg, s.cfg.Categories))
	if err != nil {
		return "", w.fail(stepRegister, err)
	}
	w.log.Info("patron registered", "patron_key", result.Key)

	if !s.cfg.LanguageEnabled {
		return result.Barcode, nil
	}

	if err := s.login(ctx, w, result.Barcode, reg.PIN); err != nil {
		return "", err
	}
	if err := s.fetch(ctx, w); err != nil {
		return "", err
	}
	if err := w.record.SetPolicyRef(s.cfg.LanguageField, fieldmap.LanguageRef(s.cfg.LanguageDefaultKey)); err != nil {
		return "", w.fail(stepApply, err)
	}
	if err := s.update(ctx, w); err != nil {
		return "", err
	}

	w.log.Debug("patron language set", "patron_key", w.session.PatronKey, "language", s.cfg.LanguageDefaultKey)
	return result.Barcode, nil
}

// GetContactInfo implements PatronService.
func (s *patronServiceImpl) GetContactInfo(
	ctx context.Context,
	creds domain.Credentials,
) (domain.ContactInfo, error) {
	w := s.begin(ctx, OpGetContactInfo)

	if err := s.login(ctx, w, creds.Identifier, creds.PIN); err != nil {
		return domain.ContactInfo{}, err
	}
	if err := s.fetch(ctx, w); err != nil {
		return domain.ContactInfo{}, err
	}

	info, err := fieldmap.ToContactInfo(w.record)
	if err != nil {
		return domain.ContactInfo{}, w.fail(stepApply, err)
	}
	return info, nil
}

// Acquire implements PatronService.
func (s *patronServiceImpl) Acquire(ctx context.Context, creds domain.Credentials) error {
	w := s.begin(ctx, OpAcquire)

	if err := s.login(ctx, w, creds.Identifier, creds.PIN); err != nil {
		return err
	}
	return w.fail(stepAcquire, domain.ErrNotImplemented)
}
