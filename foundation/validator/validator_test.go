//go:build unit
// +build unit

package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vortex-fintech/crmclean/foundation/validator"
)

type runConfig struct {
	Input     string `validate:"required"`
	Output    string `validate:"required"`
	VerifyURL string `validate:"omitempty,http_url"`
	Env       string `validate:"omitempty,oneof=development debug production"`
}

func TestValidate_Valid(t *testing.T) {
	c := runConfig{Input: "in.csv", Output: "out.csv", Env: "production"}
	assert.Nil(t, validator.Validate(c))
}

func TestValidate_MissingRequired(t *testing.T) {
	c := runConfig{Input: "in.csv"}
	res := validator.Validate(c)
	assert.NotNil(t, res)
	assert.Equal(t, "required", res["Output"])
}

func TestValidate_BadURL(t *testing.T) {
	c := runConfig{Input: "in.csv", Output: "out.csv", VerifyURL: "not a url"}
	res := validator.Validate(c)
	assert.NotNil(t, res)
	assert.Equal(t, "invalid_http_url", res["VerifyURL"])
}

func TestValidate_BadChoice(t *testing.T) {
	c := runConfig{Input: "in.csv", Output: "out.csv", Env: "verbose"}
	res := validator.Validate(c)
	assert.NotNil(t, res)
	assert.Equal(t, "invalid_choice", res["Env"])
}

func TestValidate_ErrorType(t *testing.T) {
	res := validator.Validate(123)
	assert.NotNil(t, res)
	assert.Equal(t, "validation_failed", res["_error"])
}

func TestInstance(t *testing.T) {
	assert.NotNil(t, validator.Instance())
}
