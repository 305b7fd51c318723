package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Medistore-api/internal/application/dto"
	"github.com/jhoicas/Medistore-api/internal/domain/entity"
	"github.com/jhoicas/Medistore-api/internal/domain/repository"
)

// MessageUseCase buzón de contacto: cualquiera escribe, solo un admin lee,
// marca, responde o borra.
type MessageUseCase struct {
	messages repository.MessageRepository
}

// NewMessageUseCase construye el caso de uso.
func NewMessageUseCase(messages repository.MessageRepository) *MessageUseCase {
	return &MessageUseCase{messages: messages}
}

// Create registra un mensaje entrante (ruta pública).
func (uc *MessageUseCase) Create(ctx context.Context, in dto.CreateMessageRequest) (*dto.MessageResponse, error) {
	msg := &entity.Message{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Body:      in.Message,
		CreatedAt: time.Now(),
	}
	if err := uc.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return toMessageResponse(msg), nil
}

// GetByID devuelve un mensaje del buzón (ruta admin).
func (uc *MessageUseCase) GetByID(ctx context.Context, id string) (*dto.MessageResponse, error) {
	msg, err := uc.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}
	return toMessageResponse(msg), nil
}

// List lista el buzón, opcionalmente solo no leídos (ruta admin).
func (uc *MessageUseCase) List(ctx context.Context, in dto.ListMessagesRequest) (*dto.MessageListResponse, error) {
	in.DefaultPage()
	list, err := uc.messages.List(ctx, in.UnreadOnly, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MessageResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMessageResponse(m))
	}
	return &dto.MessageListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// MarkRead marca leído/no leído; mensaje inexistente → nil.
func (uc *MessageUseCase) MarkRead(ctx context.Context, id string, read bool) (*dto.MessageResponse, error) {
	msg, err := uc.messages.MarkRead(ctx, id, read)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}
	return toMessageResponse(msg), nil
}

// Reply sella replied_at y deja el mensaje como leído.
func (uc *MessageUseCase) Reply(ctx context.Context, id string) (*dto.MessageResponse, error) {
	msg, err := uc.messages.StampReplied(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}
	return toMessageResponse(msg), nil
}

// Delete elimina un mensaje del buzón (ruta admin).
func (uc *MessageUseCase) Delete(ctx context.Context, id string) error {
	return uc.messages.Delete(ctx, id)
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Body,
		IsRead:    m.IsRead,
		RepliedAt: m.RepliedAt,
		CreatedAt: m.CreatedAt,
	}
}
