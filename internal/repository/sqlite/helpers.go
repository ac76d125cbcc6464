package sqlite

import (
	"encoding/json"

	"github.com/Masterminds/squirrel"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// encodeHistory serializes the bounded sample ring for storage.
func encodeHistory(history []float64) string {
	if len(history) == 0 {
		return "[]"
	}
	b, err := json.Marshal(history)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeHistory deserializes a stored sample ring. Corrupt data decodes as
// an empty history rather than failing the read.
func decodeHistory(raw string) []float64 {
	if raw == "" {
		return nil
	}
	var history []float64
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil
	}
	return history
}
