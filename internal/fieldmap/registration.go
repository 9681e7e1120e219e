package fieldmap

import (
	"github.com/phrazzld/sympac-api/internal/domain"
)

// LanguageResource is the policy resource referenced by the language field.
const LanguageResource = "/policy/language"

// RegistrationFields builds the flat field map accepted by the ILS register
// endpoint. Every configured category slot adds a patron-category{slot}
// reference to its default policy.
func RegistrationFields(reg domain.Registration, categories []domain.CategoryDefault) map[string]any {
	fields := map[string]any{
		"patron-firstName":      reg.FirstName,
		"patron-middleName":     reg.MiddleName,
		"patron-lastName":       reg.LastName,
		"patron-birthDate":      reg.BirthDate,
		"patronAddress1-STREET": reg.Address1.Street,
		"patronAddress1-CITY":   reg.Address1.City,
		"patronAddress1-STATE":  reg.Address1.State,
		"patronAddress1-ZIP":    reg.Address1.Zip,
		"patronAddress1-EMAIL":  reg.Email,
		"patronAddress1-PHONE":  reg.Telephone,
		"patronAddress2-STREET": reg.Address2.Street,
		"patronAddress2-CITY":   reg.Address2.City,
		"patronAddress2-STATE":  reg.Address2.State,
		"patronAddress2-ZIP":    reg.Address2.Zip,
		"patron-pin":            reg.PIN,
		"patron-confirmPIN":     reg.PIN,
	}

	for _, cat := range categories {
		fields[CategoryFieldPrefix+cat.Slot] = CategoryRef(cat)
	}

	return fields
}

// CategoryFieldPrefix prefixes the slot name in registration field names.
const CategoryFieldPrefix = "patron-category"

// CategoryRef is the policy reference for a category default.
func CategoryRef(cat domain.CategoryDefault) domain.PolicyRef {
	return domain.PolicyRef{
		Resource: "/policy/patronCategory" + cat.Slot,
		Key:      cat.Key,
		Fields:   &domain.PolicyFields{DisplayName: cat.DisplayName},
	}
}

// LanguageRef is the policy reference for a language key.
func LanguageRef(key string) domain.PolicyRef {
	return domain.PolicyRef{
		Resource: LanguageResource,
		Key:      key,
	}
}
