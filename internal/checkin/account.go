package checkin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	fieldClientID = "__client_id"
	fieldUID      = "_uid"
)

// FieldState classifies one credential field of a raw account entry.
type FieldState int

const (
	FieldAbsent FieldState = iota
	FieldInvalid
	FieldValid
)

func (s FieldState) String() string {
	switch s {
	case FieldAbsent:
		return "absent"
	case FieldInvalid:
		return "invalid"
	case FieldValid:
		return "valid"
	default:
		return fmt.Sprintf("FieldState(%d)", int(s))
	}
}

// Account is one validated credential pair, replayed as session cookies.
type Account struct {
	ClientID string `validate:"required,printascii,excludesall=;"`
	UID      string `validate:"required,printascii,excludesall=;"`
}

// InvalidAccountError describes why an entry was rejected. UID carries the
// user identifier when it could still be recovered.
type InvalidAccountError struct {
	ClientID FieldState
	UIDState FieldState
	UID      string
}

func (e *InvalidAccountError) Error() string {
	return fmt.Sprintf("invalid account entry: %s=%s %s=%s", fieldClientID, e.ClientID, fieldUID, e.UIDState)
}

var accountValidator = validator.New(validator.WithRequiredStructEnabled())

// ParseAccount validates one raw entry against the two-field credential schema.
func ParseAccount(raw json.RawMessage) (Account, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Account{}, &InvalidAccountError{ClientID: FieldInvalid, UIDState: FieldInvalid}
	}

	clientID, clientState := stringField(fields, fieldClientID)
	uid, uidState := uidField(fields)

	acct := Account{ClientID: clientID, UID: uid}
	if err := accountValidator.Struct(acct); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Account{}, fmt.Errorf("validate account: %w", err)
		}
		for _, fe := range verrs {
			switch fe.StructField() {
			case "ClientID":
				clientState = demote(clientState)
			case "UID":
				uidState = demote(uidState)
			}
		}
	}

	if clientState != FieldValid || uidState != FieldValid {
		invalid := &InvalidAccountError{ClientID: clientState, UIDState: uidState}
		if uidState == FieldValid {
			invalid.UID = uid
		}
		return Account{}, invalid
	}

	return acct, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, FieldState) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return "", FieldAbsent
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", FieldInvalid
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", FieldInvalid
	}
	return s, FieldValid
}

// uidField accepts a string or a positive integer; the cookie value is numeric.
func uidField(fields map[string]json.RawMessage) (string, FieldState) {
	if s, state := stringField(fields, fieldUID); state != FieldInvalid {
		return s, state
	}

	dec := json.NewDecoder(bytes.NewReader(fields[fieldUID]))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return "", FieldInvalid
	}
	if id, err := n.Int64(); err != nil || id <= 0 {
		return "", FieldInvalid
	}
	return n.String(), FieldValid
}

func demote(s FieldState) FieldState {
	if s == FieldValid {
		return FieldInvalid
	}
	return s
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// invalidResult builds the per-account result for a rejected entry.
func invalidResult(err error) Result {
	res := Result{OK: false, Error: ErrorInvalidAccountEntry, Detail: err.Error()}
	var invalid *InvalidAccountError
	if errors.As(err, &invalid) && invalid.UID != "" {
		res.UID = strPtr(invalid.UID)
	}
	return res
}
