package repository

import (
	"encoding/json"
	"fmt"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// asMap coerces a driver row into a plain string-keyed map. The SurrealDB
// driver decodes CBOR into mixed map types depending on the statement, so
// fall back to a JSON round-trip when needed.
func asMap(row interface{}) (map[string]interface{}, error) {
	switch m := row.(type) {
	case map[string]interface{}:
		return m, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			if key, ok := k.(string); ok {
				out[key] = v
			}
		}
		return out, nil
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("unexpected row type %T", row)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unexpected row type %T", row)
	}
	return out, nil
}

// asString extracts a string field, unwrapping record IDs.
func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case models.RecordID:
		return fmt.Sprint(s.ID)
	case *models.RecordID:
		if s != nil {
			return fmt.Sprint(s.ID)
		}
	}
	return ""
}

// asInt extracts an integer field across the numeric types the driver
// may produce.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return 0
}
