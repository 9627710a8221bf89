// Package repository implements persistence for secret series and content
// revisions. Repositories support PostgreSQL and MySQL, plus an in-memory
// implementation used by use case tests.
package repository

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/allisson/keywhiz/internal/errors"
)

// storeErr tags a low-level database failure with the StoreError kind while
// keeping the driver error text for logs.
func storeErr(err error, message string) error {
	return fmt.Errorf("%s: %w: %v", message, apperrors.ErrStore, err)
}

// marshalJSONMap serializes a string map column; nil maps become "{}" so the
// stored JSON is always an object.
func marshalJSONMap(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal json column")
	}
	return raw, nil
}

// unmarshalJSONMap deserializes a string map column; empty and NULL columns
// yield an empty map.
func unmarshalJSONMap(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return map[string]string{}, nil
	}
	m := map[string]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal json column")
	}
	return m, nil
}
