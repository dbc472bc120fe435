package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type target struct {
	IPAddress string `json:"ip_address" binding:"required,ipv4"`
	Port      int    `json:"port,omitempty" binding:"omitempty,min=1,max=65535"`
}

type job struct {
	Content  string  `json:"content" binding:"required"`
	Settings *target `json:"settings"`
}

func TestValidationMessages(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(JSONFieldName)

	err := v.Struct(job{Settings: &target{IPAddress: "printer.local", Port: 70000}})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	assert.Equal(t, map[string]string{
		"content":             "is required",
		"settings.ip_address": "must be a valid IPv4 address",
		"settings.port":       "must be at most 65535",
	}, ValidationMessages(verrs))

	assert.Equal(t,
		"content is required; settings.ip_address must be a valid IPv4 address; settings.port must be at most 65535",
		JoinValidationMessages(verrs))
}
