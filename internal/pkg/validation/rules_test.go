package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("jane@coursehub.io"))
	assert.True(t, ValidEmail("  Jane.Doe+tag@Example.COM  "))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@domain"))
	assert.False(t, ValidEmail(""))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+905551112233"))
	assert.True(t, ValidPhone("5551112"))
	assert.True(t, ValidPhone("")) // optional
	assert.False(t, ValidPhone("12345"))
	assert.False(t, ValidPhone("call me maybe"))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("abcdefg1"))
	assert.False(t, ValidPassword("short1"))
	assert.False(t, ValidPassword("lettersonly"))
	assert.False(t, ValidPassword("12345678"))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Jane Doe"))
	assert.False(t, ValidName("J"))
	assert.False(t, ValidName("   "))
}
