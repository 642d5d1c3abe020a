package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentField struct {
	Appointment string `binding:"appointment"`
}

func TestValidAppointment(t *testing.T) {
	require.NoError(t, RegisterCustomValidations())
	v := binding.Validator.Engine().(*validator.Validate)

	cases := []struct {
		value string
		ok    bool
	}{
		{"2026-08-31", true},
		{"2026-08-31 10:00", true},
		{"2026-13-01", false},
		{"next tuesday", false},
		{"", false},
	}

	for _, tc := range cases {
		err := v.Struct(appointmentField{Appointment: tc.value})
		if tc.ok {
			assert.NoError(t, err, tc.value)
		} else {
			assert.Error(t, err, tc.value)
		}
	}
}
