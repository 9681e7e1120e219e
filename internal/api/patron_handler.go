package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/sympac-api/internal/api/shared"
	"github.com/phrazzld/sympac-api/internal/domain"
	"github.com/phrazzld/sympac-api/internal/platform/logger"
	"github.com/phrazzld/sympac-api/internal/service"
)

// PatronHandler serves the patron self-service endpoints.
type PatronHandler struct {
	patronService service.PatronService
	logger        *slog.Logger
}

// NewPatronHandler creates a new PatronHandler.
func NewPatronHandler(patronService service.PatronService, log *slog.Logger) *PatronHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PatronHandler{
		patronService: patronService,
		logger:        log.With("component", "patron_handler"),
	}
}

// RegisterRoutes mounts the patron endpoints on r.
func (h *PatronHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/pin_reset", h.ResetPin)
	r.Post("/modify_contact_info", h.ModifyContactInfo)
	r.Post("/register", h.Register)
	r.Post("/change_pin", h.ChangePin)
	r.Get("/contact_info", h.GetContactInfo)
	r.Post("/acquire", h.Acquire)
}

// decodeAndValidate reads the JSON body into req and checks that every
// required field is present. It writes the error response and returns
// false on failure.
func (h *PatronHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}

// Login handles POST /login.
func (h *PatronHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.patronService.Login(r.Context(), credentials(req.Code, req.PIN)); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, "authenticated")
}

// ResetPin handles POST /pin_reset.
func (h *PatronHandler) ResetPin(w http.ResponseWriter, r *http.Request) {
	var req PinResetRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.patronService.ResetPin(r.Context(), deref(req.Code)); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, "pin reset")
}

// ModifyContactInfo handles POST /modify_contact_info.
func (h *PatronHandler) ModifyContactInfo(w http.ResponseWriter, r *http.Request) {
	var req ModifyContactInfoRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.patronService.ModifyContactInfo(r.Context(), credentials(req.Code, req.PIN), req.contactInfo())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, "contact info updated")
}

// Register handles POST /register.
func (h *PatronHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	barcode, err := h.patronService.Register(r.Context(), req.registration())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, RegisterResponse{
		Message: "patron registered",
		Barcode: barcode,
	})
}

// ChangePin handles POST /change_pin. A non-empty callback query parameter
// selects the reset-link flow, where pin holds the reset token.
func (h *PatronHandler) ChangePin(w http.ResponseWriter, r *http.Request) {
	var req ChangePinRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	callback := r.URL.Query().Get("callback") != ""
	err := h.patronService.ChangePin(r.Context(), credentials(req.Code, req.PIN), deref(req.NewPIN), callback)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithMessage(w, r, "pin changed")
}

// GetContactInfo handles GET /contact_info?code=&pin=.
func (h *PatronHandler) GetContactInfo(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var req ContactInfoQuery
	if query.Has("code") {
		code := query.Get("code")
		req.Code = &code
	}
	if query.Has("pin") {
		pin := query.Get("pin")
		req.PIN = &pin
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	info, err := h.patronService.GetContactInfo(r.Context(), credentials(req.Code, req.PIN))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, info)
}

// Acquire handles POST /acquire. Acquisition requests are not supported
// yet; valid credentials get a 501.
func (h *PatronHandler) Acquire(w http.ResponseWriter, r *http.Request) {
	var req AcquireRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("acquisition request received",
		slog.String("title", deref(req.Title)),
		slog.String("type", deref(req.Type)))

	if err := h.patronService.Acquire(r.Context(), credentials(req.Code, req.PIN)); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	HandleAPIError(w, r, domain.ErrNotImplemented)
}
