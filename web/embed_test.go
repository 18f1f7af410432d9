package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublic_ContainsBothForms(t *testing.T) {
	fsys := Public()

	contact, err := fs.ReadFile(fsys, "contact.html")
	require.NoError(t, err)
	assert.Contains(t, string(contact), `action="/contact"`)
	for _, field := range []string{`name="name"`, `name="email"`, `name="message"`} {
		assert.Contains(t, string(contact), field)
	}

	register, err := fs.ReadFile(fsys, "register.html")
	require.NoError(t, err)
	assert.Contains(t, string(register), `action="/register"`)
	for _, field := range []string{`name="name"`, `name="email"`, `name="phone"`, `name="course"`} {
		assert.Contains(t, string(register), field)
	}
}
