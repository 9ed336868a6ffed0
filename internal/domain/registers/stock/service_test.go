package stock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metapos/internal/core/apperror"
	"metapos/internal/core/types"
	"metapos/internal/domain/catalogs/product"
)

type memRepo struct {
	movements  []Movement
	quantities map[string]int64
	failOn     string
}

func newMemRepo() *memRepo {
	return &memRepo{quantities: make(map[string]int64)}
}

func (m *memRepo) CreateMovements(_ context.Context, movements []Movement) error {
	if m.failOn == "movements" {
		return errors.New("disk full")
	}
	m.movements = append(m.movements, movements...)
	return nil
}

func (m *memRepo) SetQuantity(_ context.Context, code string, quantity int64) error {
	m.quantities[code] = quantity
	return nil
}

func (m *memRepo) LoadQuantities(_ context.Context) (map[string]int64, error) {
	return m.quantities, nil
}

func (m *memRepo) ListMovements(_ context.Context, code string, _ uint64) ([]Movement, error) {
	var out []Movement
	for _, mv := range m.movements {
		if code == "" || mv.ProductCode == code {
			out = append(out, mv)
		}
	}
	return out, nil
}

type memProducts struct {
	rows []*product.Product
}

func (m *memProducts) Save(_ context.Context, p *product.Product) error {
	if p.RowID == 0 {
		p.RowID = int64(len(m.rows) + 1)
		m.rows = append(m.rows, p.Clone())
	}
	return nil
}

func (m *memProducts) GetByCode(_ context.Context, code string) (*product.Product, error) {
	return nil, apperror.NewNotFound("product", code)
}

func (m *memProducts) List(_ context.Context) ([]*product.Product, error) {
	return m.rows, nil
}

func newService(repo Repository, products product.Repository) *Service {
	return NewService(Config{
		Lock:     &sync.Mutex{},
		Registry: product.NewRegistry(),
		Ledger:   NewLedger(),
		Products: products,
		Repo:     repo,
	})
}

func TestService_RegisterProduct(t *testing.T) {
	repo := newMemRepo()
	products := &memProducts{}
	svc := newService(repo, products)
	ctx := context.Background()

	p, err := svc.RegisterProduct(ctx, RegisterInput{
		Code: "A", Name: "Arroz", Price: types.MustMoney("4.999"), InitialQuantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "5.00", types.FormatMoney(p.Price))
	assert.Equal(t, int64(1), p.RowID)

	q, err := svc.QuantityOf(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(5), q)
	assert.Equal(t, int64(5), repo.quantities["A"])
	require.Len(t, repo.movements, 1)
	assert.Equal(t, ReasonInitial, repo.movements[0].Reason)

	_, err = svc.RegisterProduct(ctx, RegisterInput{Code: "A", Name: "Dup", Price: types.Zero()})
	assert.True(t, apperror.Is(err, apperror.CodeAlreadyRegistered))

	_, err = svc.RegisterProduct(ctx, RegisterInput{Code: "B", Name: "Neg", Price: types.Zero(), InitialQuantity: -1})
	assert.True(t, apperror.Is(err, apperror.CodeInvalidQuantity))
	assert.Len(t, products.rows, 1)
}

func TestService_AddRemove(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, &memProducts{})
	ctx := context.Background()

	_, err := svc.RegisterProduct(ctx, RegisterInput{Code: "A", Name: "Arroz", Price: types.MustMoney("1")})
	require.NoError(t, err)

	q, err := svc.Add(ctx, "A", 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(10), q)

	q, err = svc.Remove(ctx, "A", 4, "")
	require.NoError(t, err)
	assert.Equal(t, int64(6), q)

	_, err = svc.Remove(ctx, "A", 7, "")
	assert.True(t, apperror.Is(err, apperror.CodeInsufficientStock))

	assert.Equal(t, int64(6), repo.quantities["A"])
	movements, err := svc.Movements(ctx, "A", 10)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, RecordTypeReceipt, movements[0].RecordType)
	assert.Equal(t, ReasonRestock, movements[0].Reason)
	assert.Equal(t, RecordTypeExpense, movements[1].RecordType)
}

func TestService_PersistFailureLeavesLedger(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, &memProducts{})
	ctx := context.Background()

	_, err := svc.RegisterProduct(ctx, RegisterInput{Code: "A", Name: "Arroz", Price: types.MustMoney("1"), InitialQuantity: 3})
	require.NoError(t, err)

	repo.failOn = "movements"
	_, err = svc.Add(ctx, "A", 2, "")
	require.Error(t, err)

	q, _ := svc.QuantityOf(ctx, "A")
	assert.Equal(t, int64(3), q)
}

func TestService_InMemoryMode(t *testing.T) {
	svc := newService(nil, nil)
	ctx := context.Background()

	_, err := svc.RegisterProduct(ctx, RegisterInput{Code: "A", Name: "Arroz", Price: types.MustMoney("1")})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "A", 2, "")
	require.NoError(t, err)

	list := svc.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].Quantity)

	movements, err := svc.Movements(ctx, "A", 10)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestService_Load(t *testing.T) {
	repo := newMemRepo()
	products := &memProducts{}
	first := newService(repo, products)
	ctx := context.Background()

	_, err := first.RegisterProduct(ctx, RegisterInput{Code: "A", Name: "Arroz", Price: types.MustMoney("1"), InitialQuantity: 8})
	require.NoError(t, err)

	second := newService(repo, products)
	require.NoError(t, second.Load(ctx))

	q, err := second.QuantityOf(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(8), q)
}
