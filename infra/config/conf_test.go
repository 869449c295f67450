package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApp_Singleton(t *testing.T) {
	first := App()
	second := App()

	assert.Same(t, first, second)
	assert.NotNil(t, first.Validator)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "value")

	assert.Equal(t, "value", GetEnv("TEST_ENV_KEY", "default"))
	assert.Equal(t, "default", GetEnv("TEST_ENV_KEY_MISSING", "default"))
}

func TestGetBoolEnv(t *testing.T) {
	t.Setenv("TEST_BOOL_TRUE", "true")
	t.Setenv("TEST_BOOL_INVALID", "not-a-bool")

	assert.True(t, GetBoolEnv("TEST_BOOL_TRUE", false))
	assert.False(t, GetBoolEnv("TEST_BOOL_MISSING", false))
	assert.True(t, GetBoolEnv("TEST_BOOL_INVALID", true))
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_INVALID", "forty-two")

	assert.Equal(t, 42, GetIntEnv("TEST_INT", 0))
	assert.Equal(t, 7, GetIntEnv("TEST_INT_MISSING", 7))
	assert.Equal(t, 7, GetIntEnv("TEST_INT_INVALID", 7))
}
