// Package store holds helpers shared by the settings.Store backends.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

// TableName is the options table every SQL backend reads and writes.
const TableName = "admin_options"

// EncodeBlob serialises a blob for the option_value column.
func EncodeBlob(blob settings.Blob) (string, error) {
	if blob == nil {
		blob = settings.Blob{}
	}
	raw, err := json.Marshal(blob)
	if err != nil {
		return "", fmt.Errorf("store: encode blob: %w", err)
	}
	return string(raw), nil
}

// DecodeBlob parses an option_value column. Empty values decode to an empty
// blob.
func DecodeBlob(raw string) (settings.Blob, error) {
	blob := settings.Blob{}
	if raw == "" {
		return blob, nil
	}
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, fmt.Errorf("store: decode blob: %w", err)
	}
	return blob, nil
}
