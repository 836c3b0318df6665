package application

import (
	"context"

	"github.com/notiflow/notiflow/internal/catalog/domain"
)

type HospitalFilter struct {
	Search string
	Type   string
	Limit  int
	Offset int
}

type ProductFilter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

type SupplierFilter struct {
	Search string
	Limit  int
	Offset int
}

type HospitalRepository interface {
	Get(ctx context.Context, id int64) (domain.Hospital, error)
	List(ctx context.Context, f HospitalFilter) ([]domain.Hospital, int, error)
	Create(ctx context.Context, h domain.Hospital) (domain.Hospital, error)
	Update(ctx context.Context, h domain.Hospital) error
	Delete(ctx context.Context, id int64) error
}

type ProductRepository interface {
	Get(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, f ProductFilter) ([]domain.Product, int, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id int64) error

	Aliases(ctx context.Context, productID int64) ([]domain.ProductAlias, error)
	AddAlias(ctx context.Context, a domain.ProductAlias) (domain.ProductAlias, error)
	DeleteAlias(ctx context.Context, id int64) error
}

type SupplierRepository interface {
	Get(ctx context.Context, id int64) (domain.Supplier, error)
	List(ctx context.Context, f SupplierFilter) ([]domain.Supplier, int, error)
	Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	Update(ctx context.Context, s domain.Supplier) error
	Delete(ctx context.Context, id int64) error
}
