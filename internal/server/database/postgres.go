// internal/server/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"staydesk/internal/config"
	"staydesk/internal/server/models"
	"staydesk/pkg/api"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type DB struct {
	*sql.DB
}

func NewDB(cfg config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL(cfg))
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &DB{db}, nil
}

func (db *DB) CreateUser(ctx context.Context, email, password, firstName, lastName, role string) (*models.User, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	if role == "" {
		role = api.RoleGuest
	}

	user := models.User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
	err = db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, first_name, last_name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, user.ID, user.Email, user.FirstName, user.LastName, user.Role, string(hashedBytes)).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	log.Printf("Created user %s (%s)", user.ID, user.Email)
	return &user, nil
}

func (db *DB) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, role, password_hash, created_at
		FROM users
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.Role, &user.PasswordHash, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (db *DB) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}

	var user models.User
	err := db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, role, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Role, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

const messageColumns = `
	m.id, m.body, m.sent_at,
	s.id, s.email, s.first_name, s.last_name, s.role,
	r.id, r.email, r.first_name, r.last_name, r.role
	FROM messages m
	JOIN users s ON m.sender_id = s.id
	JOIN users r ON m.recipient_id = r.id`

// GetMessagesForUser returns every message userID sent or received, newest
// first.
func (db *DB) GetMessagesForUser(ctx context.Context, userID string) ([]models.Message, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		WHERE m.sender_id = $1 OR m.recipient_id = $1
		ORDER BY m.sent_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// GetConversation returns the messages exchanged by two users, oldest first.
func (db *DB) GetConversation(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
		   OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.sent_at ASC
	`, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (db *DB) CreateMessage(ctx context.Context, senderID, recipientID, body string) (*models.Message, error) {
	msg := models.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}

	err := db.QueryRowContext(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, body, sent_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING sent_at
	`, msg.ID, msg.SenderID, msg.RecipientID, msg.Body).Scan(&msg.SentAt)
	if err != nil {
		var pgErr *pq.Error
		// foreign key violation
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	sender, err := db.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	recipient, err := db.GetUser(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	msg.Sender = *sender
	msg.Recipient = *recipient
	return &msg, nil
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID, &msg.Body, &msg.SentAt,
			&msg.Sender.ID, &msg.Sender.Email, &msg.Sender.FirstName, &msg.Sender.LastName, &msg.Sender.Role,
			&msg.Recipient.ID, &msg.Recipient.Email, &msg.Recipient.FirstName, &msg.Recipient.LastName, &msg.Recipient.Role,
		); err != nil {
			return nil, err
		}
		msg.SenderID = msg.Sender.ID
		msg.RecipientID = msg.Recipient.ID
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (db *DB) Close() error {
	return db.DB.Close()
}
