package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	PhotoURL     string    `json:"photoUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EventStatus holds the five per-category hire flags.
type EventStatus struct {
	DJ          bool `json:"dj"`
	Catering    bool `json:"catering"`
	Decoration  bool `json:"decoration"`
	Venue       bool `json:"venue"`
	Photography bool `json:"photography"`
}

// VendorLineItem is one hired-vendor record embedded in an event.
// ID is assigned at hire time so cancellation doesn't have to rely
// on (name, price) matching.
type VendorLineItem struct {
	ID       string    `json:"id"`
	VendorID string    `json:"vendorId"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Price    float64   `json:"price"`
	HiredAt  time.Time `json:"hiredAt"`
}

type Event struct {
	ID           string           `json:"id"`
	OwnerID      string           `json:"ownerUserId"`
	Name         string           `json:"name"`
	EventType    string           `json:"eventType"`
	Date         time.Time        `json:"date"`
	Budget       float64          `json:"budget"`
	GuestCount   int              `json:"guestCount"`
	Status       EventStatus      `json:"status"`
	HiredVendors []VendorLineItem `json:"hiredVendors"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Vendor is a read-only catalog entry.
type Vendor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
}

type Guest struct {
	ID        string      `json:"id"`
	EventID   string      `json:"eventId"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Status    GuestStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Task struct {
	ID          string    `json:"id"`
	EventID     string    `json:"eventId"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Note lives in the local embedded table, not in postgres.
type Note struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"eventId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
