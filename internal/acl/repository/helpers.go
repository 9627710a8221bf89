package repository

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/allisson/keywhiz/internal/errors"
)

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func storeErr(err error, message string) error {
	return fmt.Errorf("%s: %w: %v", message, apperrors.ErrStore, err)
}

// marshalJSONMap serializes a string map for storage; nil maps store as "{}".
func marshalJSONMap(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, storeErr(err, "failed to marshal metadata")
	}
	return data, nil
}

// unmarshalJSONMap deserializes a stored string map; empty columns load as {}.
func unmarshalJSONMap(data []byte) (map[string]string, error) {
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, storeErr(err, "failed to unmarshal metadata")
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}
