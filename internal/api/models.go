package api

import "github.com/phrazzld/sympac-api/internal/domain"

// Request fields are pointers so that a field sent as "" counts as present
// and only an absent field fails validation.

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Code *string `json:"code" validate:"required"`
	PIN  *string `json:"pin"  validate:"required"`
}

// PinResetRequest is the body of POST /pin_reset.
type PinResetRequest struct {
	Code *string `json:"code" validate:"required"`
}

// ChangePinRequest is the body of POST /change_pin. In callback mode PIN
// carries the reset token.
type ChangePinRequest struct {
	Code   *string `json:"code"    validate:"required"`
	PIN    *string `json:"pin"     validate:"required"`
	NewPIN *string `json:"new_pin" validate:"required"`
}

// ModifyContactInfoRequest is the body of POST /modify_contact_info.
// Empty values leave the stored value unchanged.
type ModifyContactInfoRequest struct {
	Code           *string `json:"code"            validate:"required"`
	PIN            *string `json:"pin"             validate:"required"`
	Address1Street *string `json:"address1_street" validate:"required"`
	Address1City   *string `json:"address1_city"   validate:"required"`
	Address1State  *string `json:"address1_state"  validate:"required"`
	Address1Zip    *string `json:"address1_zip"    validate:"required"`
	Email          *string `json:"email"           validate:"required"`
	Telephone      *string `json:"telephone"       validate:"required"`
	LocationCode   *string `json:"location_code"   validate:"required"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	FirstName      *string `json:"first_name"      validate:"required"`
	MiddleName     *string `json:"middle_name"     validate:"required"`
	LastName       *string `json:"last_name"       validate:"required"`
	Birthdate      *string `json:"birthdate"       validate:"required"`
	Address1Street *string `json:"address1_street" validate:"required"`
	Address1City   *string `json:"address1_city"   validate:"required"`
	Address1State  *string `json:"address1_state"  validate:"required"`
	Address1Zip    *string `json:"address1_zip"    validate:"required"`
	Address2Street *string `json:"address2_street" validate:"required"`
	Address2City   *string `json:"address2_city"   validate:"required"`
	Address2State  *string `json:"address2_state"  validate:"required"`
	Address2Zip    *string `json:"address2_zip"    validate:"required"`
	Email          *string `json:"email"           validate:"required"`
	Telephone      *string `json:"telephone"       validate:"required"`
	PIN            *string `json:"pin"             validate:"required"`
}

// AcquireRequest is the body of POST /acquire.
type AcquireRequest struct {
	Code      *string `json:"code"      validate:"required"`
	PIN       *string `json:"pin"       validate:"required"`
	Author    *string `json:"author"    validate:"required"`
	Title     *string `json:"title"     validate:"required"`
	Publisher *string `json:"publisher" validate:"required"`
	ISBN      *string `json:"isbn"      validate:"required"`
	Type      *string `json:"type"      validate:"required"`
	Subject   *string `json:"subject"   validate:"required"`
}

// ContactInfoQuery holds the query parameters of GET /contact_info.
type ContactInfoQuery struct {
	Code *string `query:"code" validate:"required"`
	PIN  *string `query:"pin"  validate:"required"`
}

// RegisterResponse is the success body of POST /register.
type RegisterResponse struct {
	Message string `json:"message"`
	Barcode string `json:"barcode"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func credentials(code, pin *string) domain.Credentials {
	return domain.Credentials{Identifier: deref(code), PIN: deref(pin)}
}

func (req ModifyContactInfoRequest) contactInfo() domain.ContactInfo {
	return domain.ContactInfo{
		Street:       deref(req.Address1Street),
		City:         deref(req.Address1City),
		State:        deref(req.Address1State),
		Zip:          deref(req.Address1Zip),
		Email:        deref(req.Email),
		Telephone:    deref(req.Telephone),
		LocationCode: deref(req.LocationCode),
	}
}

func (req RegisterRequest) registration() domain.Registration {
	return domain.Registration{
		FirstName:  deref(req.FirstName),
		MiddleName: deref(req.MiddleName),
		LastName:   deref(req.LastName),
		BirthDate:  deref(req.Birthdate),
		Address1: domain.Address{
			Street: deref(req.Address1Street),
			City:   deref(req.Address1City),
			State:  deref(req.Address1State),
			Zip:    deref(req.Address1Zip),
		},
		Address2: domain.Address{
			Street: deref(req.Address2Street),
			City:   deref(req.Address2City),
			State:  deref(req.Address2State),
			Zip:    deref(req.Address2Zip),
		},
		Email:     deref(req.Email),
		Telephone: deref(req.Telephone),
		PIN:       deref(req.PIN),
	}
}
