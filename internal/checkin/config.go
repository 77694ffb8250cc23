package checkin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WarningNoAccounts is reported when the token list is absent, not a list, or empty.
const WarningNoAccounts = "no accounts found in token field"

// Accounts is the ordered list of raw account entries taken from the token field.
type Accounts struct {
	Entries []json.RawMessage
	Warning string
}

type accountsDocument struct {
	Token json.RawMessage `json:"token"`
}

// LoadAccounts parses the raw accounts document. A missing or malformed token
// field is not an error: it yields no entries and a warning.
func LoadAccounts(raw string) (Accounts, error) {
	if strings.TrimSpace(raw) == "" {
		return Accounts{}, ErrMissingConfiguration
	}

	if strings.TrimSpace(raw) == "null" {
		return Accounts{}, fmt.Errorf("%w: top-level value must be an object", ErrInvalidConfiguration)
	}

	var doc accountsDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Accounts{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	token := bytes.TrimSpace(doc.Token)
	if len(token) == 0 || token[0] != '[' {
		return Accounts{Warning: WarningNoAccounts}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(token, &entries); err != nil {
		return Accounts{}, fmt.Errorf("%w: token: %v", ErrInvalidConfiguration, err)
	}
	if len(entries) == 0 {
		return Accounts{Warning: WarningNoAccounts}, nil
	}

	return Accounts{Entries: entries}, nil
}

func errorCode(err error) string {
	if errors.Is(err, ErrMissingConfiguration) {
		return ErrorCodeMissingConfiguration
	}
	return ErrorCodeInvalidConfiguration
}
