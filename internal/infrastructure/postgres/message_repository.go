package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Medistore-api/internal/domain/entity"
	"github.com/jhoicas/Medistore-api/internal/domain/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

// MessageRepo implementación del puerto MessageRepository sobre PostgreSQL.
type MessageRepo struct {
	pool *pgxpool.Pool
}

// NewMessageRepository construye el adaptador de persistencia para mensajes de contacto.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

const messageColumns = `id, name, email, subject, body, is_read, replied_at, created_at`

// Create persiste un mensaje entrante.
func (r *MessageRepo) Create(ctx context.Context, m *entity.Message) error {
	query := `
		INSERT INTO messages (id, name, email, subject, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Name, m.Email, m.Subject, m.Body, m.IsRead, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// GetByID obtiene un mensaje por ID.
func (r *MessageRepo) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	m, err := scanMessage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// List lista mensajes del más reciente al más antiguo; unreadOnly filtra los no leídos.
func (r *MessageRepo) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*entity.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages`
	if unreadOnly {
		query += ` WHERE is_read = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// MarkRead marca leído/no leído y devuelve la fila actualizada, o nil si no existe.
func (r *MessageRepo) MarkRead(ctx context.Context, id string, read bool) (*entity.Message, error) {
	query := `
		UPDATE messages SET is_read = $2
		WHERE id = $1
		RETURNING ` + messageColumns
	m, err := scanMessage(r.pool.QueryRow(ctx, query, id, read))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark message read: %w", err)
	}
	return m, nil
}

// StampReplied sella replied_at y marca el mensaje como leído. Devuelve la fila
// actualizada, o nil si no existe.
func (r *MessageRepo) StampReplied(ctx context.Context, id string, at time.Time) (*entity.Message, error) {
	query := `
		UPDATE messages SET replied_at = $2, is_read = true
		WHERE id = $1
		RETURNING ` + messageColumns
	m, err := scanMessage(r.pool.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("stamp message replied: %w", err)
	}
	return m, nil
}

// Delete elimina un mensaje por ID.
func (r *MessageRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func scanMessage(row pgx.Row) (*entity.Message, error) {
	var m entity.Message
	if err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.IsRead, &m.RepliedAt, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
