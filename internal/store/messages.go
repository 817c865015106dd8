package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nearbuy-chat/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageStore defines persistence operations for messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, message *models.Message) (bool, error)
	GetMessagesByRoomID(ctx context.Context, roomID int64) ([]*models.Message, error)
	MarkRoomRead(ctx context.Context, roomID, readerID int64, at time.Time) (int64, *time.Time, error)
}

// PostgresMessageStore implements MessageStore with PostgreSQL.
type PostgresMessageStore struct {
	db *pgxpool.Pool
}

func NewPostgresMessageStore(db *pgxpool.Pool) *PostgresMessageStore {
	return &PostgresMessageStore{
		db: db,
	}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var msg models.Message
	err := row.Scan(
		&msg.ID,
		&msg.RoomID,
		&msg.SenderID,
		&msg.ClientMsgID,
		&msg.Content,
		&msg.SentAt,
		&msg.ReadAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateMessage stores message and fills in its id and timestamps. A message whose
// client_msg_id was already stored for the same room and sender is not written
// again: message is overwritten with the stored row and the bool is false.
func (s *PostgresMessageStore) CreateMessage(ctx context.Context, message *models.Message) (bool, error) {
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	if message.ClientMsgID != nil && *message.ClientMsgID == "" {
		message.ClientMsgID = nil
	}

	insert := `
        INSERT INTO chat_messages (room_id, sender_id, client_msg_id, content, sent_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (room_id, sender_id, client_msg_id) WHERE client_msg_id IS NOT NULL DO NOTHING
        RETURNING id, room_id, sender_id, client_msg_id, content, sent_at, read_at
    `
	stored, err := scanMessage(s.db.QueryRow(ctx, insert,
		message.RoomID,
		message.SenderID,
		message.ClientMsgID,
		message.Content,
		message.SentAt,
	))
	if err == nil {
		*message = *stored
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) || message.ClientMsgID == nil {
		return false, fmt.Errorf("failed to create message: %w", err)
	}

	existing := `
        SELECT id, room_id, sender_id, client_msg_id, content, sent_at, read_at
        FROM chat_messages
        WHERE room_id = $1 AND sender_id = $2 AND client_msg_id = $3
    `
	stored, err = scanMessage(s.db.QueryRow(ctx, existing, message.RoomID, message.SenderID, *message.ClientMsgID))
	if err != nil {
		return false, fmt.Errorf("failed to load message for client id %s: %w", *message.ClientMsgID, err)
	}
	*message = *stored
	return false, nil
}

// GetMessagesByRoomID returns the full history of a room, oldest first.
func (s *PostgresMessageStore) GetMessagesByRoomID(ctx context.Context, roomID int64) ([]*models.Message, error) {
	query := `
        SELECT id, room_id, sender_id, client_msg_id, content, sent_at, read_at
        FROM chat_messages
        WHERE room_id = $1
        ORDER BY sent_at ASC, id ASC
    `
	rows, err := s.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages by room ID: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

// MarkRoomRead stamps every unread message in the room not sent by readerID.
// It returns how many rows changed and the newest sent_at among them, nil when
// nothing was unread.
func (s *PostgresMessageStore) MarkRoomRead(ctx context.Context, roomID, readerID int64, at time.Time) (int64, *time.Time, error) {
	query := `
        WITH marked AS (
            UPDATE chat_messages
            SET read_at = $3
            WHERE room_id = $1 AND sender_id <> $2 AND read_at IS NULL
            RETURNING sent_at
        )
        SELECT COUNT(*), MAX(sent_at) FROM marked
    `
	var (
		count     int64
		watermark *time.Time
	)
	if err := s.db.QueryRow(ctx, query, roomID, readerID, at).Scan(&count, &watermark); err != nil {
		return 0, nil, fmt.Errorf("failed to mark room %d read: %w", roomID, err)
	}
	return count, watermark, nil
}
