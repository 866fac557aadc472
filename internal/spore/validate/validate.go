// Package validate checks candidate spore submissions. Validation is pure:
// no side effects, same input always yields the same verdict.
package validate

import (
	"math"

	"sporemap/internal/spore/models"
)

// Kind identifies which check a submission failed.
type Kind string

const (
	KindMissingBody        Kind = "missing_body"
	KindInvalidLatitude    Kind = "invalid_latitude"
	KindInvalidLongitude   Kind = "invalid_longitude"
	KindInvalidMessageType Kind = "invalid_message_type"
	KindEmptyMessage       Kind = "empty_message"
	KindMessageTooLong     Kind = "message_too_long"
	KindMissingIdentity    Kind = "missing_identity"
)

// Error is a typed validation failure with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// MaxMessageLength is measured in UTF-16 code units, matching what map
// clients count with string length.
const MaxMessageLength = 280

// Validate runs the checks in order and short-circuits at the first failure.
// A nil return means the submission is valid.
func Validate(sub *models.SporeSubmission) *Error {
	if sub == nil {
		return &Error{Kind: KindMissingBody, Message: "Request body is required"}
	}

	if sub.Lat == nil || math.IsNaN(*sub.Lat) || math.IsInf(*sub.Lat, 0) || *sub.Lat < -90 || *sub.Lat > 90 {
		return &Error{Kind: KindInvalidLatitude, Message: "Invalid latitude: must be a number between -90 and 90"}
	}

	if sub.Lng == nil || math.IsNaN(*sub.Lng) || math.IsInf(*sub.Lng, 0) || *sub.Lng < -180 || *sub.Lng > 180 {
		return &Error{Kind: KindInvalidLongitude, Message: "Invalid longitude: must be a number between -180 and 180"}
	}

	if sub.Message == nil {
		return &Error{Kind: KindInvalidMessageType, Message: "Message must be a string"}
	}

	length := utf16Length(*sub.Message)
	if length == 0 {
		return &Error{Kind: KindEmptyMessage, Message: "Message cannot be empty"}
	}
	if length > MaxMessageLength {
		return &Error{Kind: KindMessageTooLong, Message: "Message must be 280 characters or less"}
	}

	if sub.CookieID == nil || *sub.CookieID == "" {
		return &Error{Kind: KindMissingIdentity, Message: "Cookie ID is required"}
	}

	return nil
}

// utf16Length counts UTF-16 code units: supplementary-plane runes occupy two.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		n++
		if r > 0xFFFF {
			n++
		}
	}
	return n
}
