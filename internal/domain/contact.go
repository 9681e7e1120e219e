package domain

// ContactInfo is the flat contact shape exposed to clients. It is derived
// from, and merged into, a patron record's address1 list and library field.
type ContactInfo struct {
	Street       string `json:"address1_street"`
	City         string `json:"address1_city"`
	State        string `json:"address1_state"`
	Zip          string `json:"address1_zip"`
	Email        string `json:"email"`
	Telephone    string `json:"telephone"`
	LocationCode string `json:"location_code"`
}

// Address is a postal address as submitted during registration.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Registration holds the details of a new patron.
type Registration struct {
	FirstName  string
	MiddleName string
	LastName   string
	BirthDate  string
	Address1   Address
	Address2   Address
	Email      string
	Telephone  string
	PIN        string
}

// CategoryDefault is the default policy applied to one patron category slot
// (for example slot "01" maps to the patronCategory01 policy).
type CategoryDefault struct {
	Slot        string
	Key         string
	DisplayName string
}
