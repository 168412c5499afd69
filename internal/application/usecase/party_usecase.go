package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ops/internal/application/dto"
	"github.com/jhoicas/retail-ops/internal/application/ports"
	"github.com/jhoicas/retail-ops/internal/domain"
	"github.com/jhoicas/retail-ops/internal/domain/entity"
	"github.com/jhoicas/retail-ops/internal/domain/repository"
)

// PartyUseCase alta y consulta de clientes y proveedores. Los saldos nacen en cero;
// solo los cambian ventas, órdenes de compra y abonos.
type PartyUseCase struct {
	txRunner ports.TxRunner
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(txRunner ports.TxRunner) *PartyUseCase {
	return &PartyUseCase{txRunner: txRunner}
}

type normalizedParty struct{ name, taxID, phone string }

func (p *normalizedParty) ok() bool { return p.name != "" && p.taxID != "" }

func normalize(in dto.CreatePartyRequest) *normalizedParty {
	return &normalizedParty{
		name:  strings.TrimSpace(in.Name),
		taxID: strings.TrimSpace(in.TaxID),
		phone: strings.TrimSpace(in.Phone),
	}
}

// CreateClient crea un nuevo cliente.
func (uc *PartyUseCase) CreateClient(ctx context.Context, in dto.CreatePartyRequest) (*dto.ClientResponse, error) {
	p := normalize(in)
	if !p.ok() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:             uuid.New().String(),
		Name:           p.name,
		TaxID:          p.taxID,
		Phone:          p.phone,
		TotalPurchases: decimal.Zero,
		DebtBalance:    decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Clients.Create(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	return ToClientResponse(client), nil
}

// GetClient obtiene un cliente por ID.
func (uc *PartyUseCase) GetClient(ctx context.Context, id string) (*dto.ClientResponse, error) {
	var client *entity.Client
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		c, err := repos.Clients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToClientResponse(client), nil
}

// CreateSupplier crea un nuevo proveedor.
func (uc *PartyUseCase) CreateSupplier(ctx context.Context, in dto.CreatePartyRequest) (*dto.SupplierResponse, error) {
	p := normalize(in)
	if !p.ok() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:          uuid.New().String(),
		Name:        p.name,
		TaxID:       p.taxID,
		Phone:       p.phone,
		DebtBalance: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Suppliers.Create(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetSupplier obtiene un proveedor por ID.
func (uc *PartyUseCase) GetSupplier(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	var supplier *entity.Supplier
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		s, err := repos.Suppliers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		supplier = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// ToClientResponse convierte un cliente a su DTO de salida.
func ToClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:             c.ID,
		Name:           c.Name,
		TaxID:          c.TaxID,
		Phone:          c.Phone,
		TotalPurchases: c.TotalPurchases,
		DebtBalance:    c.DebtBalance,
		CreatedAt:      c.CreatedAt,
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	if s == nil {
		return nil
	}
	return &dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		TaxID:       s.TaxID,
		Phone:       s.Phone,
		DebtBalance: s.DebtBalance,
		CreatedAt:   s.CreatedAt,
	}
}
