package domain

import (
	"encoding/json"
	"fmt"
)

// Field names of the ILS patron record that the gateway reads or writes.
const (
	FieldAddress1 = "address1"
	FieldLibrary  = "library"
	FieldBarcode  = "barcode"
)

// Credentials identify a patron for operations that require a login.
// They are held only for the duration of a single request.
type Credentials struct {
	Identifier string
	PIN        string
}

// Session is the result of a successful ILS login. It is valid for a single
// workflow run and is never cached.
type Session struct {
	Token     string
	PatronKey string
}

// PatronRecord is the ILS representation of a patron.
//
// Fields are kept as raw JSON so that a fetched record can be written back
// with only the fields the gateway touches changed. Typed accessors cover the
// address list and policy references.
type PatronRecord struct {
	Resource string                     `json:"resource,omitempty"`
	Key      string                     `json:"key"`
	Fields   map[string]json.RawMessage `json:"fields"`
}

// PolicyRef is a reference to an ILS policy resource, used for fields such
// as library, language and the patron categories.
type PolicyRef struct {
	Resource string        `json:"resource"`
	Key      string        `json:"key"`
	Fields   *PolicyFields `json:"fields,omitempty"`
}

// PolicyFields carries the optional display data of a policy reference.
type PolicyFields struct {
	DisplayName string `json:"displayName,omitempty"`
}

// AddressEntry is one element of a coded field list such as address1.
type AddressEntry struct {
	Resource string         `json:"resource,omitempty"`
	Key      string         `json:"key,omitempty"`
	Fields   *AddressFields `json:"fields,omitempty"`
}

// AddressFields holds the code and value of an address entry.
type AddressFields struct {
	Code *PolicyRef `json:"code,omitempty"`
	Data string     `json:"data"`
}

// CodeKey returns the code key of the entry, or "" when the entry has no code.
func (e AddressEntry) CodeKey() string {
	if e.Fields == nil || e.Fields.Code == nil {
		return ""
	}
	return e.Fields.Code.Key
}

// Address1 decodes the address1 coded list. A record without the field
// yields a nil slice.
func (p *PatronRecord) Address1() ([]AddressEntry, error) {
	raw, ok := p.field(FieldAddress1)
	if !ok {
		return nil, nil
	}

	var entries []AddressEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidRecord, FieldAddress1, err)
	}
	return entries, nil
}

// SetAddress1 replaces the address1 coded list.
func (p *PatronRecord) SetAddress1(entries []AddressEntry) error {
	return p.set(FieldAddress1, entries)
}

// Address1Raw returns the address1 entries undecoded, so that keys the
// gateway does not model survive a write back.
func (p *PatronRecord) Address1Raw() ([]json.RawMessage, error) {
	raw, ok := p.field(FieldAddress1)
	if !ok {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidRecord, FieldAddress1, err)
	}
	return entries, nil
}

// SetAddress1Raw replaces the address1 coded list with entries as given.
func (p *PatronRecord) SetAddress1Raw(entries []json.RawMessage) error {
	return p.set(FieldAddress1, entries)
}

// PolicyRef decodes the named reference field. It returns nil when the field
// is absent or null.
func (p *PatronRecord) PolicyRef(name string) (*PolicyRef, error) {
	raw, ok := p.field(name)
	if !ok {
		return nil, nil
	}

	var ref PolicyRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidRecord, name, err)
	}
	return &ref, nil
}

// SetPolicyRef writes the named reference field.
func (p *PatronRecord) SetPolicyRef(name string, ref PolicyRef) error {
	return p.set(name, ref)
}

// StringField returns a scalar string field, or "" if it is absent or not a string.
func (p *PatronRecord) StringField(name string) string {
	raw, ok := p.field(name)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (p *PatronRecord) field(name string) (json.RawMessage, bool) {
	if p == nil || p.Fields == nil {
		return nil, false
	}
	raw, ok := p.Fields[name]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

func (p *PatronRecord) set(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode field %s: %w", name, err)
	}
	if p.Fields == nil {
		p.Fields = make(map[string]json.RawMessage)
	}
	p.Fields[name] = raw
	return nil
}
