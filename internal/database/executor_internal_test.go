package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitOne(t *testing.T) {
	assert.Equal(t, "SELECT * FROM user WHERE email = $email LIMIT 1",
		limitOne("SELECT * FROM user WHERE email = $email"))
	assert.Equal(t, "select * from user limit 5", limitOne("select * from user limit 5"))
	assert.Equal(t, "  SELECT * FROM user LIMIT 1", limitOne("  SELECT * FROM user"))
	assert.Equal(t, "UPDATE user SET name = $name WHERE email = $email",
		limitOne("UPDATE user SET name = $name WHERE email = $email"))
}
