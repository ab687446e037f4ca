package postgres

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestNormalize(t *testing.T) {
	day := time.Date(2023, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "numeric", in: pgtype.Numeric{Int: big.NewInt(15025), Exp: -2, Valid: true}, want: 150.25},
		{name: "integral numeric", in: pgtype.Numeric{Int: big.NewInt(2023), Exp: 0, Valid: true}, want: float64(2023)},
		{name: "null numeric", in: pgtype.Numeric{}, want: nil},
		{name: "bytes", in: []byte("Technology"), want: "Technology"},
		{name: "int64", in: int64(42), want: int64(42)},
		{name: "string", in: "West", want: "West"},
		{name: "nil", in: nil, want: nil},
		{name: "date", in: day, want: day},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.in)
			if got != tt.want {
				t.Errorf("normalize(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
