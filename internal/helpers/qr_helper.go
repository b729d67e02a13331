package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length in pixels of rendered tickets.
const DefaultQRSize = 256

const (
	payloadSeparator = ";"
	keyRegistration  = "registrationId"
	keyEvent         = "eventId"
	keyEmail         = "userEmail"
	keyInstance      = "instance"
)

var payloadKeys = [...]string{keyRegistration, keyEvent, keyEmail, keyInstance}

// TicketPayload is the identity encoded into a ticket's barcode.
type TicketPayload struct {
	RegistrationID uint
	EventID        uint
	UserEmail      string
	Instance       int
}

// EncodeTicketPayload renders p in the fixed wire format
// registrationId:<int>;eventId:<int>;userEmail:<string>;instance:<int>.
func EncodeTicketPayload(p TicketPayload) string {
	return fmt.Sprintf("%s:%d;%s:%d;%s:%s;%s:%d",
		keyRegistration, p.RegistrationID,
		keyEvent, p.EventID,
		keyEmail, p.UserEmail,
		keyInstance, p.Instance,
	)
}

// ParseTicketPayload is the inverse of EncodeTicketPayload. Field order, keys
// and separators must match exactly.
func ParseTicketPayload(raw string) (TicketPayload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TicketPayload{}, fmt.Errorf("empty payload")
	}

	parts := strings.Split(raw, payloadSeparator)
	if len(parts) != len(payloadKeys) {
		return TicketPayload{}, fmt.Errorf("expected %d fields, got %d", len(payloadKeys), len(parts))
	}

	values := make([]string, len(parts))
	for i, part := range parts {
		key, value, ok := strings.Cut(part, ":")
		if !ok || key != payloadKeys[i] {
			return TicketPayload{}, fmt.Errorf("field %d: expected key %q", i, payloadKeys[i])
		}
		if value == "" {
			return TicketPayload{}, fmt.Errorf("field %q is empty", key)
		}
		values[i] = value
	}

	regID, err := ParseID(values[0])
	if err != nil {
		return TicketPayload{}, fmt.Errorf("%s: %w", keyRegistration, err)
	}
	eventID, err := ParseID(values[1])
	if err != nil {
		return TicketPayload{}, fmt.Errorf("%s: %w", keyEvent, err)
	}
	instance, err := strconv.Atoi(values[3])
	if err != nil || instance < 0 {
		return TicketPayload{}, fmt.Errorf("%s: invalid value %q", keyInstance, values[3])
	}

	return TicketPayload{
		RegistrationID: regID,
		EventID:        eventID,
		UserEmail:      values[2],
		Instance:       instance,
	}, nil
}

// RenderQR encodes payload verbatim into a PNG barcode.
func RenderQR(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
