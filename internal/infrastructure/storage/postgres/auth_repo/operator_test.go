package auth_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/domain/auth"
)

func TestOperatorRepo_CreateQuery(t *testing.T) {
	r := NewOperatorRepo(nil)
	op := &auth.Operator{Name: "ana", PasswordHash: "hash", Role: auth.RoleCashier, IsActive: true}

	sql, _, err := r.createQuery(op).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO operators (created_at,failed_login_attempts,is_active,last_login_at,locked_until,name,password_hash,role,updated_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id", sql)
}

func TestOperatorRepo_UpdateQuery_KeepsNameAndHash(t *testing.T) {
	r := NewOperatorRepo(nil)
	op := &auth.Operator{RowID: 3, Name: "ana", Role: auth.RoleAdmin, FailedLoginAttempts: 2}

	sql, args, err := r.updateQuery(op).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE operators SET failed_login_attempts = $1, is_active = $2, last_login_at = $3, locked_until = $4, role = $5, updated_at = $6 WHERE id = $7", sql)
	assert.Equal(t, 2, args[0])
	assert.Equal(t, int64(3), args[6])
	assert.NotContains(t, sql, "password_hash")
}

func TestLower(t *testing.T) {
	assert.Equal(t, "ana", lower("  Ana "))
}
