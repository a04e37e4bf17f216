package service

import (
	"context"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/repository"
)

// itemService is a read-only facade over the item registry. Item creation
// and editing are owned by the external CRUD layer; the matching core only
// reads items and moves their status through offer and delivery transitions.
type itemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

func (s *itemService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

func (s *itemService) ListAvailableItems(ctx context.Context, page, pageSize int32) ([]domain.Item, int32, error) {
	return s.itemRepo.ListAvailable(ctx, page, pageSize)
}
