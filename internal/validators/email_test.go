package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailDomainValid_Malformed(t *testing.T) {
	for _, email := range []string{"", "no-at-sign", "trailing@", "Ana <ana@clinic.example>"} {
		assert.False(t, IsEmailDomainValid(email), email)
	}
}

func TestEmailDomain(t *testing.T) {
	d, ok := EmailDomain("ana@Clinic.Example")
	assert.True(t, ok)
	assert.Equal(t, "clinic.example", d)

	_, ok = EmailDomain("ana@localhost")
	assert.False(t, ok)
}
