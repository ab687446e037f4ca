package postgres

import "github.com/jackc/pgx/v5/pgtype"

// normalize converts driver-specific values into plain Go scalars so the result
// can be rendered and serialized without knowing about pgx.
func normalize(v any) any {
	switch val := v.(type) {
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case []byte:
		return string(val)
	default:
		return v
	}
}
