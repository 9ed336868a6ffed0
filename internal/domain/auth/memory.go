package auth

import (
	"context"
	"sort"
	"strings"
	"sync"

	"metapos/internal/core/apperror"
)

// MemoryRepository keeps operators in process memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows []*Operator
}

// NewMemoryRepository creates an empty operator store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create implements OperatorRepository.
func (r *MemoryRepository) Create(_ context.Context, op *Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if strings.EqualFold(row.Name, op.Name) {
			return apperror.NewAlreadyRegistered("operator", op.Name)
		}
	}
	op.RowID = int64(len(r.rows) + 1)
	c := *op
	r.rows = append(r.rows, &c)
	return nil
}

// GetByID implements OperatorRepository.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.RowID == id {
			c := *row
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("operator", id)
}

// GetByName implements OperatorRepository.
func (r *MemoryRepository) GetByName(_ context.Context, name string) (*Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if strings.EqualFold(row.Name, name) {
			c := *row
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("operator", name)
}

// Update implements OperatorRepository.
func (r *MemoryRepository) Update(_ context.Context, op *Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, row := range r.rows {
		if row.RowID == op.RowID {
			c := *op
			r.rows[i] = &c
			return nil
		}
	}
	return apperror.NewNotFound("operator", op.RowID)
}

// List implements OperatorRepository.
func (r *MemoryRepository) List(_ context.Context) ([]*Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Operator, len(r.rows))
	for i, row := range r.rows {
		c := *row
		out[i] = &c
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Exists implements OperatorRepository.
func (r *MemoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	_, err := r.GetByName(ctx, name)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

var _ OperatorRepository = (*MemoryRepository)(nil)
