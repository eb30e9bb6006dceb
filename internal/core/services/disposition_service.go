package services

import (
	"context"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/validation"
)

// DispositionService records how forfeited items were liquidated
type DispositionService struct {
	tx           Transactor
	dispositions *repositories.DispositionRepository
	items        *repositories.ItemRepository
}

// NewDispositionService creates a new disposition service
func NewDispositionService(tx Transactor, dispositions *repositories.DispositionRepository, items *repositories.ItemRepository) *DispositionService {
	return &DispositionService{tx: tx, dispositions: dispositions, items: items}
}

// DispositionInput is the body of POST /dispositions and PUT /dispositions/:id
type DispositionInput struct {
	ItemID     validation.Flex `json:"itemId"`
	SaleDate   validation.Flex `json:"saleDate"`
	SalePrice  validation.Flex `json:"salePrice"`
	SaleMethod string          `json:"saleMethod"`
	Buyer      string          `json:"buyer" validate:"max=200"`
	Note       string          `json:"note" validate:"max=2000"`
}

func (in *DispositionInput) toModel() (*models.Disposition, error) {
	v := validation.New("")
	v.Require(in.ItemID, in.SaleDate, in.SalePrice)
	v.RequireText(in.SaleMethod)
	v.Struct(in)
	d := &models.Disposition{
		ItemID:     v.ID("item_id", in.ItemID),
		SaleDate:   v.Date("sale", in.SaleDate),
		SalePrice:  v.Money("sale_price", in.SalePrice, validation.NonNegative),
		SaleMethod: v.Enum(in.SaleMethod, domain.SaleMethods, domain.ErrInvalidSaleMethod),
		Buyer:      in.Buyer,
		Note:       in.Note,
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// Create records a disposition for an existing item
func (s *DispositionService) Create(ctx context.Context, input *DispositionInput) (*models.Disposition, error) {
	disposition, err := input.toModel()
	if err != nil {
		return nil, err
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireItem(ctx, disposition.ItemID); err != nil {
			return err
		}
		return s.dispositions.Create(ctx, disposition)
	})
	if err != nil {
		return nil, err
	}
	return disposition, nil
}

// Update replaces every field of a disposition
func (s *DispositionService) Update(ctx context.Context, id uint, input *DispositionInput) (*models.Disposition, error) {
	next, err := input.toModel()
	if err != nil {
		return nil, err
	}
	var disposition *models.Disposition
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.dispositions.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrDispositionNotFound)
		}
		if err := s.requireItem(ctx, next.ItemID); err != nil {
			return err
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		if err := s.dispositions.Save(ctx, next); err != nil {
			return err
		}
		disposition = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return disposition, nil
}

// GetByID gets a disposition
func (s *DispositionService) GetByID(ctx context.Context, id uint) (*models.Disposition, error) {
	disposition, err := s.dispositions.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrDispositionNotFound)
	}
	return disposition, nil
}

// List lists dispositions, optionally for one item
func (s *DispositionService) List(ctx context.Context, itemID uint, limit int) ([]*models.Disposition, error) {
	return s.dispositions.List(ctx, itemID, limit)
}

// Delete removes a disposition
func (s *DispositionService) Delete(ctx context.Context, id uint) error {
	n, err := s.dispositions.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDispositionNotFound
	}
	return nil
}

func (s *DispositionService) requireItem(ctx context.Context, itemID uint) error {
	ok, err := s.items.Exists(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrItemNotFound
	}
	return nil
}
