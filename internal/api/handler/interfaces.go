package handler

import (
	"context"

	"github.com/sarali19/Eventful-Event-management-platform/internal/application"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/booking"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/rating"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]*event.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]*event.Event, error)
	ListBookedByUser(ctx context.Context, userID string) ([]*event.Event, error)
	UpdateEvent(ctx context.Context, input application.UpdateEventInput) (*event.Event, error)
	DeleteEvent(ctx context.Context, id, actorID string) error
	GetStats(ctx context.Context, id string) (*event.Stats, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	BookEvent(ctx context.Context, eventID, userID string) (*booking.Participant, error)
	ListParticipants(ctx context.Context, eventID string) ([]*booking.Participant, error)
}

// RatingServiceInterface は評価サービスのインターフェース
type RatingServiceInterface interface {
	RateEvent(ctx context.Context, eventID, userID string, score int) (*rating.Rating, error)
	ListByEvent(ctx context.Context, eventID string) ([]*rating.Rating, error)
	ListByUser(ctx context.Context, userID string) ([]*rating.Rating, error)
}

// UserServiceInterface はユーザーサービスのインターフェース
type UserServiceInterface interface {
	Register(ctx context.Context, input application.RegisterInput) (*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
}

var (
	_ EventServiceInterface   = (*application.EventService)(nil)
	_ BookingServiceInterface = (*application.BookingService)(nil)
	_ RatingServiceInterface  = (*application.RatingService)(nil)
	_ UserServiceInterface    = (*application.UserService)(nil)
)
