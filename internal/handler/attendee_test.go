package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyAttendee(t *testing.T) {
	tests := []struct {
		name     string
		entry    interface{}
		wantOK   bool
		wantMail string
		wantID   uint
	}{
		{name: "email entry", entry: "a@x.com", wantOK: true, wantMail: "a@x.com"},
		{name: "numeric string entry", entry: "42", wantOK: true, wantID: 42},
		{name: "json number entry", entry: float64(42), wantOK: true, wantID: 42},
		{name: "int entry", entry: 7, wantOK: true, wantID: 7},
		{name: "unrecognized string", entry: "not-a-user", wantOK: false},
		{name: "zero id", entry: float64(0), wantOK: false},
		{name: "negative number", entry: float64(-3), wantOK: false},
		{name: "fractional number", entry: float64(4.5), wantOK: false},
		{name: "nil entry", entry: nil, wantOK: false},
		{name: "bool entry", entry: true, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := classifyAttendee(tt.entry)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			require.Equal(t, tt.wantMail, ref.email)
			require.Equal(t, tt.wantID, ref.userID)
		})
	}
}
