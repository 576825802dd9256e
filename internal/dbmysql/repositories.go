package dbmysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrMediaNotFound = errors.New("media not found")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	// List returns a collection ordered by created_at then insert order.
	List(ctx context.Context, collection string, desc bool) ([]Message, error)
	// LatestSeq is the highest seq in collection, 0 when empty.
	LatestSeq(ctx context.Context, collection string) (uint64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepository) List(ctx context.Context, collection string, desc bool) ([]Message, error) {
	order := "created_at ASC, seq ASC"
	if desc {
		order = "created_at DESC, seq DESC"
	}

	var msgs []Message
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order(order).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

func (r *messageRepository) LatestSeq(ctx context.Context, collection string) (uint64, error) {
	var seq uint64
	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("collection = ?", collection).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read latest seq: %w", err)
	}
	return seq, nil
}

type MediaRefRepository interface {
	Create(ctx context.Context, ref *MediaRef) error
	ByPath(ctx context.Context, path string) (*MediaRef, error)
}

type mediaRefRepository struct {
	db *gorm.DB
}

func NewMediaRefRepository(db *gorm.DB) MediaRefRepository {
	return &mediaRefRepository{db: db}
}

func (r *mediaRefRepository) Create(ctx context.Context, ref *MediaRef) error {
	if err := r.db.WithContext(ctx).Create(ref).Error; err != nil {
		return fmt.Errorf("failed to create media ref: %w", err)
	}
	return nil
}

func (r *mediaRefRepository) ByPath(ctx context.Context, path string) (*MediaRef, error) {
	var ref MediaRef
	err := r.db.WithContext(ctx).Where("path = ?", path).First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media ref: %w", err)
	}
	return &ref, nil
}
