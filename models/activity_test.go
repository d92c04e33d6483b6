package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDecodeMeta_StatusChange(t *testing.T) {
	meta, err := EncodeMeta(StatusChangeMeta{OldStatus: "draft", NewStatus: "pending_approval"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	a := Activity{Type: ActivityTypeStatusChange, Metadata: meta}

	decoded, err := a.DecodeMeta()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	m, ok := decoded.(StatusChangeMeta)
	if !ok {
		t.Fatalf("expected StatusChangeMeta, got %T", decoded)
	}
	if m.OldStatus != "draft" || m.NewStatus != "pending_approval" {
		t.Fatalf("round trip mismatch: %+v", m)
	}
}

func TestDecodeMeta_Payment(t *testing.T) {
	paid := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	meta, err := EncodeMeta(PaymentMeta{
		Amount: decimal.RequireFromString("1250.50"),
		Date:   paid,
		Method: "bank_transfer",
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	a := Activity{Type: ActivityTypePayment, Metadata: meta}

	decoded, err := a.DecodeMeta()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	m, ok := decoded.(PaymentMeta)
	if !ok {
		t.Fatalf("expected PaymentMeta, got %T", decoded)
	}
	if !m.Amount.Equal(decimal.RequireFromString("1250.50")) {
		t.Fatalf("amount mismatch: %s", m.Amount)
	}
	if !m.Date.Equal(paid) || m.Method != "bank_transfer" {
		t.Fatalf("round trip mismatch: %+v", m)
	}
}

func TestDecodeMeta_FileUpload(t *testing.T) {
	meta, err := EncodeMeta(FileMeta{URL: "https://storage.example/hq/contract/a.pdf", Name: "a.pdf", Size: 2048})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	a := Activity{Type: ActivityTypeFileUpload, Metadata: meta}

	decoded, err := a.DecodeMeta()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	m, ok := decoded.(FileMeta)
	if !ok {
		t.Fatalf("expected FileMeta, got %T", decoded)
	}
	if m.Name != "a.pdf" || m.Size != 2048 {
		t.Fatalf("round trip mismatch: %+v", m)
	}
}

func TestDecodeMeta_Meeting(t *testing.T) {
	when := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	meta, err := EncodeMeta(MeetingMeta{Date: when, Location: "HQ room 2"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	a := Activity{Type: ActivityTypeMeeting, Metadata: meta}

	decoded, err := a.DecodeMeta()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	m, ok := decoded.(MeetingMeta)
	if !ok {
		t.Fatalf("expected MeetingMeta, got %T", decoded)
	}
	if !m.Date.Equal(when) || m.Location != "HQ room 2" {
		t.Fatalf("round trip mismatch: %+v", m)
	}
}

func TestDecodeMeta_FreeTextTypesHaveNone(t *testing.T) {
	for _, typ := range []ActivityType{ActivityTypeComment, ActivityTypeOther} {
		a := Activity{Type: typ, Metadata: `{"anything":"goes"}`}
		if _, err := a.DecodeMeta(); !errors.Is(err, ErrNoMetadata) {
			t.Fatalf("%s: expected ErrNoMetadata, got %v", typ, err)
		}
	}
}

func TestDecodeMeta_EmptyMetadata(t *testing.T) {
	a := Activity{Type: ActivityTypePayment}
	if _, err := a.DecodeMeta(); !errors.Is(err, ErrNoMetadata) {
		t.Fatalf("expected ErrNoMetadata, got %v", err)
	}
}

func TestDecodeMeta_MalformedPayload(t *testing.T) {
	a := Activity{Type: ActivityTypeStatusChange, Metadata: "{not json"}
	if _, err := a.DecodeMeta(); err == nil || errors.Is(err, ErrNoMetadata) {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestDescribeStatusChange(t *testing.T) {
	got := DescribeStatusChange("draft", "pending_approval")
	want := "Status changed: draft → pending_approval"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
