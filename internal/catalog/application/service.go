package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notiflow/notiflow/internal/catalog/domain"
	"github.com/notiflow/notiflow/pkg/notify"
)

const defaultPageSize = 50

// Service fronts the three catalog aggregates. Mutations fan out a change
// notification so open dashboards refetch the affected table.
type Service struct {
	log       *slog.Logger
	hospitals HospitalRepository
	products  ProductRepository
	suppliers SupplierRepository
	notifier  notify.Publisher
}

func NewService(log *slog.Logger, hospitals HospitalRepository, products ProductRepository, suppliers SupplierRepository, notifier notify.Publisher) *Service {
	return &Service{
		log:       log,
		hospitals: hospitals,
		products:  products,
		suppliers: suppliers,
		notifier:  notifier,
	}
}

func (s *Service) GetHospital(ctx context.Context, id int64) (domain.Hospital, error) {
	return s.hospitals.Get(ctx, id)
}

func (s *Service) ListHospitals(ctx context.Context, f HospitalFilter) ([]domain.Hospital, int, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	return s.hospitals.List(ctx, f)
}

func (s *Service) CreateHospital(ctx context.Context, h domain.Hospital) (domain.Hospital, error) {
	created, err := s.hospitals.Create(ctx, h)
	if err != nil {
		return domain.Hospital{}, fmt.Errorf("create hospital: %w", err)
	}
	s.publish(ctx, "hospitals")
	return created, nil
}

func (s *Service) UpdateHospital(ctx context.Context, h domain.Hospital) error {
	if err := s.hospitals.Update(ctx, h); err != nil {
		return err
	}
	s.publish(ctx, "hospitals")
	return nil
}

func (s *Service) DeleteHospital(ctx context.Context, id int64) error {
	if err := s.hospitals.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "hospitals")
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, int, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	return s.products.List(ctx, f)
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	created, err := s.products.Create(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.publish(ctx, "products")
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) error {
	if err := s.products.Update(ctx, p); err != nil {
		return err
	}
	s.publish(ctx, "products")
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "products")
	return nil
}

func (s *Service) ProductAliases(ctx context.Context, productID int64) ([]domain.ProductAlias, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}
	return s.products.Aliases(ctx, productID)
}

func (s *Service) AddProductAlias(ctx context.Context, a domain.ProductAlias) (domain.ProductAlias, error) {
	if a.Source == "" {
		a.Source = domain.AliasSourceManual
	}
	if _, err := s.products.Get(ctx, a.ProductID); err != nil {
		return domain.ProductAlias{}, err
	}
	created, err := s.products.AddAlias(ctx, a)
	if err != nil {
		return domain.ProductAlias{}, fmt.Errorf("add alias: %w", err)
	}
	s.publish(ctx, "product_aliases")
	return created, nil
}

func (s *Service) DeleteProductAlias(ctx context.Context, id int64) error {
	if err := s.products.DeleteAlias(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "product_aliases")
	return nil
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (domain.Supplier, error) {
	return s.suppliers.Get(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context, f SupplierFilter) ([]domain.Supplier, int, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	return s.suppliers.List(ctx, f)
}

func (s *Service) CreateSupplier(ctx context.Context, sup domain.Supplier) (domain.Supplier, error) {
	created, err := s.suppliers.Create(ctx, sup)
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	s.publish(ctx, "suppliers")
	return created, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, sup domain.Supplier) error {
	if err := s.suppliers.Update(ctx, sup); err != nil {
		return err
	}
	s.publish(ctx, "suppliers")
	return nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "suppliers")
	return nil
}

func (s *Service) publish(ctx context.Context, table string) {
	if err := s.notifier.Publish(ctx, table); err != nil {
		s.log.Error("change notification failed", "table", table, "err", err)
	}
}
