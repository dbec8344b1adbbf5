package domain

import "github.com/google/uuid"

// Text marshalling so IDs render as canonical uuid strings in JSON and logs
// instead of raw byte arrays.

func (id TenantID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ActorID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id DraftID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id EvidenceID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id AttachmentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id EntityID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ProfileID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id RuleID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id ContextID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ResultID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id GapID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }

func unmarshalUUID(dst *uuid.UUID, text []byte) error {
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	*dst = u
	return nil
}

func (id *TenantID) UnmarshalText(text []byte) error { return unmarshalUUID((*uuid.UUID)(id), text) }
func (id *ActorID) UnmarshalText(text []byte) error  { return unmarshalUUID((*uuid.UUID)(id), text) }
func (id *DraftID) UnmarshalText(text []byte) error  { return unmarshalUUID((*uuid.UUID)(id), text) }
func (id *EvidenceID) UnmarshalText(text []byte) error {
	return unmarshalUUID((*uuid.UUID)(id), text)
}
func (id *AttachmentID) UnmarshalText(text []byte) error {
	return unmarshalUUID((*uuid.UUID)(id), text)
}
func (id *EntityID) UnmarshalText(text []byte) error  { return unmarshalUUID((*uuid.UUID)(id), text) }
func (id *ProfileID) UnmarshalText(text []byte) error { return unmarshalUUID((*uuid.UUID)(id), text) }
func (id *RuleID) UnmarshalText(text []byte) error    { return unmarshalUUID((*uuid.UUID)(id), text) }
func (id *ContextID) UnmarshalText(text []byte) error { return unmarshalUUID((*uuid.UUID)(id), text) }
func (id *ResultID) UnmarshalText(text []byte) error  { return unmarshalUUID((*uuid.UUID)(id), text) }
func (id *GapID) UnmarshalText(text []byte) error     { return unmarshalUUID((*uuid.UUID)(id), text) }
