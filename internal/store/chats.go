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

// ChatStore defines persistence operations for listings and their chat rooms.
type ChatStore interface {
	GetListing(ctx context.Context, listingID int64) (*models.Listing, error)
	GetOrCreateRoom(ctx context.Context, listing *models.Listing, buyerID int64) (*models.Room, bool, error)
	GetRoom(ctx context.Context, roomID int64) (*models.Room, error)
	GetUserRooms(ctx context.Context, userID int64) ([]models.RoomSummary, error)
}

// PostgresChatStore implements ChatStore with PostgreSQL.
type PostgresChatStore struct {
	db *pgxpool.Pool
}

func NewPostgresChatStore(db *pgxpool.Pool) *PostgresChatStore {
	return &PostgresChatStore{
		db: db,
	}
}

func (s *PostgresChatStore) GetListing(ctx context.Context, listingID int64) (*models.Listing, error) {
	query := `SELECT id, seller_id, title, price, image_url, status FROM listings WHERE id = $1`
	l := &models.Listing{}
	err := s.db.QueryRow(ctx, query, listingID).Scan(&l.ID, &l.SellerID, &l.Title, &l.Price, &l.ImageURL, &l.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing %d: %w", listingID, err)
	}
	return l, nil
}

// GetOrCreateRoom returns the room of buyerID for listing, creating it on first contact.
// The bool reports whether a new room was created.
func (s *PostgresChatStore) GetOrCreateRoom(ctx context.Context, listing *models.Listing, buyerID int64) (*models.Room, bool, error) {
	insert := `
        INSERT INTO chat_rooms (listing_id, buyer_id, seller_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (listing_id, buyer_id) DO NOTHING
        RETURNING id, listing_id, buyer_id, seller_id, completed_at, created_at
    `
	room, err := scanRoom(s.db.QueryRow(ctx, insert, listing.ID, buyerID, listing.SellerID))
	if err == nil {
		return room, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create room for listing %d: %w", listing.ID, err)
	}

	query := `
        SELECT id, listing_id, buyer_id, seller_id, completed_at, created_at
        FROM chat_rooms
        WHERE listing_id = $1 AND buyer_id = $2
    `
	room, err = scanRoom(s.db.QueryRow(ctx, query, listing.ID, buyerID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to load room for listing %d: %w", listing.ID, err)
	}
	return room, false, nil
}

func (s *PostgresChatStore) GetRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	query := `
        SELECT id, listing_id, buyer_id, seller_id, completed_at, created_at
        FROM chat_rooms
        WHERE id = $1
    `
	room, err := scanRoom(s.db.QueryRow(ctx, query, roomID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to get room %d: %w", roomID, err)
	}
	return room, nil
}

// GetUserRooms lists every room userID takes part in, with its last message and
// the number of messages from the other participant that userID has not read.
func (s *PostgresChatStore) GetUserRooms(ctx context.Context, userID int64) ([]models.RoomSummary, error) {
	query := `
SELECT
    r.id,
    r.listing_id,
    l.title,
    l.price,
    l.image_url,
    l.status,
    r.seller_id,
    r.buyer_id,
    s.name,
    b.name,
    s.avatar,
    b.avatar,
    lm.content,
    lm.sent_at,
    r.completed_at,
    (
        SELECT COUNT(*)
        FROM chat_messages m
        WHERE m.room_id = r.id AND m.sender_id <> $1 AND m.read_at IS NULL
    ) AS unread_count
FROM chat_rooms r
JOIN listings l ON l.id = r.listing_id
JOIN users s ON s.id = r.seller_id
JOIN users b ON b.id = r.buyer_id
LEFT JOIN LATERAL (
    SELECT m.content, m.sent_at
    FROM chat_messages m
    WHERE m.room_id = r.id
    ORDER BY m.sent_at DESC, m.id DESC
    LIMIT 1
) lm ON TRUE
WHERE r.buyer_id = $1 OR r.seller_id = $1
ORDER BY r.id
    `
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user rooms: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.RoomSummary, 0)
	for rows.Next() {
		var (
			sum         models.RoomSummary
			lastSentAt  *time.Time
			completedAt *time.Time
		)
		err := rows.Scan(
			&sum.ID,
			&sum.ListingID,
			&sum.ListingTitle,
			&sum.ListingPrice,
			&sum.ListingImage,
			&sum.Status,
			&sum.SellerID,
			&sum.BuyerID,
			&sum.SellerName,
			&sum.BuyerName,
			&sum.SellerAvatar,
			&sum.BuyerAvatar,
			&sum.LastMessage,
			&lastSentAt,
			&completedAt,
			&sum.UnreadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user room row: %w", err)
		}
		sum.LastMessageTime = models.NewJSONTimePtr(lastSentAt)
		sum.CompletedAt = models.NewJSONTimePtr(completedAt)
		summaries = append(summaries, sum)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user room rows: %w", err)
	}
	return summaries, nil
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	room := &models.Room{}
	err := row.Scan(&room.ID, &room.ListingID, &room.BuyerID, &room.SellerID, &room.CompletedAt, &room.CreatedAt)
	if err != nil {
		return nil, err
	}
	return room, nil
}

var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrListingNotFound = errors.New("listing not found")
)
