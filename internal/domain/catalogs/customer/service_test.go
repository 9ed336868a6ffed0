package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/core/apperror"
)

func TestService_RegisterInMemory(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	c, err := svc.Register(ctx, &Customer{Name: "  Maria Silva ", Email: "maria@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.RowID)
	assert.Equal(t, "Maria Silva", c.Name)
	assert.True(t, c.IsActive)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", got.Email)

	_, err = svc.Get(ctx, 2)
	assert.True(t, apperror.IsNotFound(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_RegisterValidation(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Register(context.Background(), &Customer{Name: " "})
	assert.True(t, apperror.Is(err, apperror.CodeInvalidAttribute))

	_, err = svc.Register(context.Background(), &Customer{Name: "João", Email: "not-an-email"})
	assert.True(t, apperror.Is(err, apperror.CodeInvalidAttribute))
}
