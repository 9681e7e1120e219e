// Package fieldmap converts between the gateway's flat patron shapes and the
// ILS patron record.
//
// The ILS stores postal and contact details as a coded field list (address1)
// whose entries are identified by a code key such as STREET or EMAIL. Writes
// are sparse: only codes with a non-empty incoming value are touched, and
// entries are matched by code, never by position.
package fieldmap
