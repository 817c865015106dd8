package models

import "time"

// ListingStatus is the sale state of a listing.
type ListingStatus string

const (
	ListingActive ListingStatus = "active"
	ListingSold   ListingStatus = "sold"
)

// Listing is the slice of a marketplace listing the chat needs.
type Listing struct {
	ID       int64         `json:"id" db:"id"`
	SellerID int64         `json:"seller_id" db:"seller_id"`
	Title    string        `json:"title" db:"title"`
	Price    float64       `json:"price" db:"price"`
	ImageURL string        `json:"image_url" db:"image_url"`
	Status   ListingStatus `json:"status" db:"status"`
}

// ListingInfo is the display-only listing context of a room.
type ListingInfo struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Room is a two-party conversation between a listing's seller and one buyer.
type Room struct {
	ID          int64      `json:"id" db:"id"`
	ListingID   int64      `json:"listing_id" db:"listing_id"`
	BuyerID     int64      `json:"buyer_id" db:"buyer_id"`
	SellerID    int64      `json:"seller_id" db:"seller_id"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// HasParticipant reports whether userID is the buyer or the seller.
func (r *Room) HasParticipant(userID int64) bool {
	return r.BuyerID == userID || r.SellerID == userID
}

// OtherParticipant returns the id of the participant that is not userID.
func (r *Room) OtherParticipant(userID int64) int64 {
	if r.BuyerID == userID {
		return r.SellerID
	}
	return r.BuyerID
}

// RoomSummary is one inbox row.
type RoomSummary struct {
	ID              int64         `json:"id"`
	ListingID       int64         `json:"listing_id"`
	ListingTitle    string        `json:"listing_title"`
	ListingPrice    float64       `json:"listing_price"`
	ListingImage    string        `json:"listing_image,omitempty"`
	Status          ListingStatus `json:"status"`
	SellerID        int64         `json:"seller_id"`
	BuyerID         int64         `json:"buyer_id"`
	SellerName      string        `json:"seller_name"`
	BuyerName       string        `json:"buyer_name"`
	SellerAvatar    string        `json:"seller_avatar,omitempty"`
	BuyerAvatar     string        `json:"buyer_avatar,omitempty"`
	LastMessage     *string       `json:"last_message"`
	LastMessageTime *JSONTime     `json:"last_message_time"`
	CompletedAt     *JSONTime     `json:"completed_at"`
	UnreadCount     int           `json:"unread_count"`
}

// RoomsResponse is the fetchRooms payload.
type RoomsResponse struct {
	Chats []RoomSummary `json:"chats"`
}

// InitiateRoomRequest asks for the room of the caller and a listing.
type InitiateRoomRequest struct {
	ListingID int64 `json:"listing_id" binding:"required"`
}

// InitiateRoomResponse identifies the room created or found for a listing.
type InitiateRoomResponse struct {
	RoomID       int64   `json:"room_id"`
	ListingID    int64   `json:"listing_id"`
	SellerID     int64   `json:"seller_id"`
	ListingTitle string  `json:"listing_title"`
	ListingPrice float64 `json:"listing_price"`
	ListingImage string  `json:"listing_image,omitempty"`
}
