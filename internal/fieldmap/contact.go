package fieldmap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/sympac-api/internal/domain"
)

// Address codes of the ILS address1 list.
const (
	CodeStreet    = "STREET"
	CodeCityState = "CITY/STATE"
	CodeZip       = "ZIP"
	CodeEmail     = "EMAIL"
	CodePhone     = "PHONE"
)

// LibraryResource is the policy resource referenced by the library field.
const LibraryResource = "/policy/library"

type codedValue struct {
	code  string
	value string
}

// Patch is the set of record changes derived from a ContactInfo.
// Empty contact fields do not appear in it.
type Patch struct {
	values  []codedValue
	city    string
	state   string
	library string
}

// BuildPatch derives the record changes for info. The location code is
// upper-cased because ILS library keys are.
func BuildPatch(info domain.ContactInfo) Patch {
	p := Patch{
		city:    info.City,
		state:   info.State,
		library: strings.ToUpper(info.LocationCode),
	}
	for _, cv := range []codedValue{
		{CodeStreet, info.Street},
		{CodeZip, info.Zip},
		{CodeEmail, info.Email},
		{CodePhone, info.Telephone},
	} {
		if cv.value != "" {
			p.values = append(p.values, cv)
		}
	}
	return p
}

// Apply writes the patch into rec. Address entries whose code has no
// incoming value, and entries without a code, are left byte for byte as
// they were. In a matching entry only fields.data is rewritten.
func (p Patch) Apply(rec *domain.PatronRecord) error {
	entries, err := rec.Address1Raw()
	if err != nil {
		return err
	}

	changed := false
	for i, raw := range entries {
		code, data, err := codeAndData(raw)
		if err != nil {
			return err
		}
		if code == "" {
			continue
		}

		value, ok := p.valueFor(code, data)
		if !ok {
			continue
		}
		entries[i], err = withData(raw, value)
		if err != nil {
			return err
		}
		changed = true
	}

	if changed {
		if err := rec.SetAddress1Raw(entries); err != nil {
			return err
		}
	}

	if p.library != "" {
		if err := rec.SetPolicyRef(domain.FieldLibrary, domain.PolicyRef{
			Resource: LibraryResource,
			Key:      p.library,
		}); err != nil {
			return err
		}
	}

	return nil
}

// valueFor returns the new data for an entry with the given code and current
// data. CITY/STATE keeps whichever half has no incoming value.
func (p Patch) valueFor(code, current string) (string, bool) {
	if code == CodeCityState {
		if p.city == "" && p.state == "" {
			return "", false
		}
		city, state := SplitCityState(current)
		if p.city != "" {
			city = p.city
		}
		if p.state != "" {
			state = p.state
		}
		return JoinCityState(city, state), true
	}

	value, found := "", false
	for _, cv := range p.values {
		if cv.code == code {
			value, found = cv.value, true
		}
	}
	return value, found
}

type entryView struct {
	Fields *struct {
		Code *struct {
			Key string `json:"key"`
		} `json:"code"`
		Data string `json:"data"`
	} `json:"fields"`
}

func codeAndData(raw json.RawMessage) (string, string, error) {
	var v entryView
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", "", fmt.Errorf("%w: field %s: %v", domain.ErrInvalidRecord, domain.FieldAddress1, err)
	}
	if v.Fields == nil || v.Fields.Code == nil {
		return "", "", nil
	}
	return v.Fields.Code.Key, v.Fields.Data, nil
}

// withData rewrites fields.data of raw and keeps every other key.
func withData(raw json.RawMessage, data string) (json.RawMessage, error) {
	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", domain.ErrInvalidRecord, domain.FieldAddress1, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry["fields"], &fields); err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", domain.ErrInvalidRecord, domain.FieldAddress1, err)
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	fields["data"] = encoded

	if entry["fields"], err = json.Marshal(fields); err != nil {
		return nil, err
	}
	return json.Marshal(entry)
}

// ToContactInfo reads the contact details out of rec. Codes that are not
// present yield empty strings.
func ToContactInfo(rec *domain.PatronRecord) (domain.ContactInfo, error) {
	entries, err := rec.Address1()
	if err != nil {
		return domain.ContactInfo{}, err
	}

	city, state := SplitCityState(lookup(entries, CodeCityState))
	info := domain.ContactInfo{
		Street:    lookup(entries, CodeStreet),
		City:      city,
		State:     state,
		Zip:       lookup(entries, CodeZip),
		Email:     lookup(entries, CodeEmail),
		Telephone: lookup(entries, CodePhone),
	}

	library, err := rec.PolicyRef(domain.FieldLibrary)
	if err != nil {
		return domain.ContactInfo{}, err
	}
	if library != nil {
		info.LocationCode = library.Key
	}

	return info, nil
}

// lookup returns the data of the first entry with the given code.
func lookup(entries []domain.AddressEntry, code string) string {
	for _, e := range entries {
		if e.CodeKey() == code {
			return e.Fields.Data
		}
	}
	return ""
}

// SplitCityState splits a combined "city, state" value on its last comma,
// so that city names containing commas survive. Both halves are trimmed.
// A value without a comma is treated as a city.
func SplitCityState(combined string) (city, state string) {
	i := strings.LastIndex(combined, ",")
	if i < 0 {
		return strings.TrimSpace(combined), ""
	}
	return strings.TrimSpace(combined[:i]), strings.TrimSpace(combined[i+1:])
}

// JoinCityState is the inverse of SplitCityState.
func JoinCityState(city, state string) string {
	if state == "" {
		return city
	}
	return city + ", " + state
}
