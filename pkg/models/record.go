package models

// IdentityRecord is a single identity observation submitted for
// resolution. EntityID is the only required field; every other field is
// optional and only participates in scoring when present on both sides
// of a comparison.
type IdentityRecord struct {
	EntityID   string `json:"entity_id" validate:"required"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	StudentID  string `json:"student_id,omitempty"`
	CardID     string `json:"card_id,omitempty"`
	DeviceHash string `json:"device_hash,omitempty"`
}

// Comparable field names for identity records
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldStudentID  = "student_id"
	FieldCardID     = "card_id"
	FieldDeviceHash = "device_hash"
)

// ComparableFields lists the fields composite scoring knows about, in a
// stable order.
var ComparableFields = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldStudentID,
	FieldCardID,
	FieldDeviceHash,
}

// Fields returns the record's populated comparable fields. An empty
// value means the field was not observed, so it is omitted entirely.
func (r IdentityRecord) Fields() map[string]string {
	fields := make(map[string]string, len(ComparableFields))
	if r.Name != "" {
		fields[FieldName] = r.Name
	}
	if r.Email != "" {
		fields[FieldEmail] = r.Email
	}
	if r.Phone != "" {
		fields[FieldPhone] = r.Phone
	}
	if r.StudentID != "" {
		fields[FieldStudentID] = r.StudentID
	}
	if r.CardID != "" {
		fields[FieldCardID] = r.CardID
	}
	if r.DeviceHash != "" {
		fields[FieldDeviceHash] = r.DeviceHash
	}
	return fields
}
