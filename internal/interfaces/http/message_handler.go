package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Medistore-api/internal/application/dto"
	"github.com/jhoicas/Medistore-api/internal/application/usecase"
)

// MessageHandler formulario de contacto público + buzón admin.
type MessageHandler struct {
	uc *usecase.MessageUseCase
}

// NewMessageHandler construye el handler de mensajes.
func NewMessageHandler(uc *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

// Create godoc
// @Summary      Enviar un mensaje de contacto
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMessageRequest  true  "datos del mensaje"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/messages [post]
func (h *MessageHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar el buzón de mensajes
// @Tags         messages
// @Produce      json
// @Param        unread_only  query  bool  false  "solo no leídos"
// @Success      200   {object}  dto.MessageListResponse
// @Security     BearerAuth
// @Router       /api/admin/messages [get]
func (h *MessageHandler) List(c *fiber.Ctx) error {
	var in dto.ListMessagesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un mensaje
// @Tags         messages
// @Produce      json
// @Param        id  path  string  true  "ID del mensaje"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/messages/{id} [get]
func (h *MessageHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el mensaje no existe"})
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar un mensaje como leído/no leído
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del mensaje"
// @Param        body  body  dto.MarkMessageReadRequest  true  "is_read"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	var in dto.MarkMessageReadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.MarkRead(c.UserContext(), c.Params("id"), in.IsRead)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el mensaje no existe"})
	}
	return c.JSON(out)
}

// Reply godoc
// @Summary      Sellar un mensaje como respondido
// @Tags         messages
// @Produce      json
// @Param        id  path  string  true  "ID del mensaje"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/messages/{id}/reply [post]
func (h *MessageHandler) Reply(c *fiber.Ctx) error {
	out, err := h.uc.Reply(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el mensaje no existe"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un mensaje
// @Tags         messages
// @Produce      json
// @Param        id  path  string  true  "ID del mensaje"
// @Success      204
// @Security     BearerAuth
// @Router       /api/admin/messages/{id} [delete]
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
