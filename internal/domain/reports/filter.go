package reports

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"metapos/internal/core/apperror"
	"metapos/internal/domain/registers/stock"
)

// Predicate is a compiled CEL filter over stock entries.
type Predicate struct {
	program cel.Program
}

var productEnv = mustEnv()

func mustEnv() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("code", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("price", cel.DoubleType),
		cel.Variable("quantity", cel.IntType),
		cel.Variable("active", cel.BoolType),
	)
	if err != nil {
		panic(fmt.Sprintf("reports: cel env: %v", err))
	}
	return env
}

// CompilePredicate parses and type-checks expr. It must evaluate to bool.
func CompilePredicate(expr string) (*Predicate, error) {
	ast, iss := productEnv.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("filter", expr).
			WithDetail("reason", iss.Err().Error())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, apperror.NewValidation("filter expression must return bool").
			WithDetail("filter", expr).
			WithDetail("type", ast.OutputType().String())
	}

	prg, err := productEnv.Program(ast)
	if err != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("filter", expr).
			WithCause(err)
	}
	return &Predicate{program: prg}, nil
}

// Match evaluates the predicate for one entry.
func (p *Predicate) Match(e stock.Entry) (bool, error) {
	price, _ := e.Product.Price.Float64()
	out, _, err := p.program.Eval(map[string]any{
		"code":     e.Product.Code,
		"name":     e.Product.Name,
		"category": e.Product.Category,
		"price":    price,
		"quantity": e.Quantity,
		"active":   e.Product.IsActive,
	})
	if err != nil {
		return false, apperror.NewValidation("filter evaluation failed").
			WithDetail("code", e.Product.Code).
			WithCause(err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T", out.Value())
	}
	return matched, nil
}
