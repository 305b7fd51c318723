package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Medistore-api/internal/domain/entity"
)

// MessageRepository define el puerto de persistencia para Message (DIP).
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*entity.Message, error)
	MarkRead(ctx context.Context, id string, read bool) (*entity.Message, error)
	StampReplied(ctx context.Context, id string, at time.Time) (*entity.Message, error)
	Delete(ctx context.Context, id string) error
}
