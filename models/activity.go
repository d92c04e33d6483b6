package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Activity is the persisted form of one ledger entry: an immutable,
// timestamped record describing one event against a lifecycle entity.
// Rows are only ever inserted; there is no update or delete path.
type Activity struct {
	ID            int          `gorm:"primary_key" json:"id"`
	TenantId      string       `gorm:"index;not null" json:"tenant_id"`
	EntityType    EntityType   `gorm:"size:20;index:idx_activity_entity;not null" json:"entity_type"`
	EntityId      int          `gorm:"index:idx_activity_entity;not null" json:"entity_id"`
	Type          ActivityType `gorm:"type:enum('status_change','comment','file_upload','payment','meeting','other');not null" json:"type"`
	Description   string       `gorm:"type:text;not null" json:"description"`
	OldStatus     string       `gorm:"size:50" json:"old_status,omitempty"`
	NewStatus     string       `gorm:"size:50" json:"new_status,omitempty"`
	CreatedBy     int          `gorm:"index;not null" json:"created_by"`
	CreatedByName string       `gorm:"size:100" json:"created_by_name"`
	Metadata      string       `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

type NewActivity struct {
	Type        ActivityType `json:"type" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Metadata    string       `json:"metadata"`
}

// Per-type metadata payloads. The dashboard's free-form metadata bag is
// replaced with one struct per activity type so renderers can handle each
// shape exhaustively.

type StatusChangeMeta struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

type PaymentMeta struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Method string          `json:"method,omitempty"`
}

type FileMeta struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}

type MeetingMeta struct {
	Date     time.Time `json:"date"`
	Location string    `json:"location,omitempty"`
}

var ErrNoMetadata = errors.New("activity has no metadata")

// EncodeMeta serializes a typed payload into the Metadata column.
func EncodeMeta(meta any) (string, error) {
	if meta == nil {
		return "", nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeMeta decodes the Metadata column into the payload struct matching
// the activity's type. Callers switch on the returned concrete type.
func (a *Activity) DecodeMeta() (any, error) {
	if a.Metadata == "" {
		return nil, ErrNoMetadata
	}
	switch a.Type {
	case ActivityTypeStatusChange:
		var m StatusChangeMeta
		if err := json.Unmarshal([]byte(a.Metadata), &m); err != nil {
			return nil, err
		}
		return m, nil
	case ActivityTypePayment:
		var m PaymentMeta
		if err := json.Unmarshal([]byte(a.Metadata), &m); err != nil {
			return nil, err
		}
		return m, nil
	case ActivityTypeFileUpload:
		var m FileMeta
		if err := json.Unmarshal([]byte(a.Metadata), &m); err != nil {
			return nil, err
		}
		return m, nil
	case ActivityTypeMeeting:
		var m MeetingMeta
		if err := json.Unmarshal([]byte(a.Metadata), &m); err != nil {
			return nil, err
		}
		return m, nil
	case ActivityTypeComment, ActivityTypeOther:
		// Free text types carry no structured payload.
		return nil, ErrNoMetadata
	}
	return nil, fmt.Errorf("unknown activity type %q", a.Type)
}

// DescribeStatusChange builds the human-readable timeline line for a
// transition, e.g. "Status changed: draft → pending_approval".
func DescribeStatusChange(oldStatus, newStatus string) string {
	return fmt.Sprintf("Status changed: %s → %s", oldStatus, newStatus)
}
