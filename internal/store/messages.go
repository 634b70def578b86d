package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/partnerdesk/internal/chat"
)

// DefaultMessageLimit caps ListMessages when no limit is given.
const DefaultMessageLimit = 100

// AddMessage appends m to its partner's thread.
func (s *Store) AddMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getPartner(ctx, tx, m.PartnerID); err != nil {
			return err
		}

		now := s.timestamp()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO messages (partner_id, sender, body, created_at) VALUES (?, ?, ?, ?)
		`, m.PartnerID, string(m.Sender), m.Body, now)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read message id: %w", err)
		}
		m.ID = id
		m.CreatedAt = now
		m.ReadAt = nil
		return nil
	})
	if err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

// ListMessages returns a partner's messages with id greater than afterID,
// oldest first.
func (s *Store) ListMessages(ctx context.Context, partnerID, afterID int64, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	if _, err := s.GetPartner(ctx, partnerID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, partner_id, sender, body, created_at, read_at
		FROM messages
		WHERE partner_id = ? AND id > ?
		ORDER BY id ASC
		LIMIT ?
	`, partnerID, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]chat.Message, 0)
	for rows.Next() {
		var m chat.Message
		var sender string
		var readAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.PartnerID, &sender, &m.Body, &m.CreatedAt, &readAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Sender = chat.Sender(sender)
		m.CreatedAt = m.CreatedAt.UTC()
		m.ReadAt = timePtr(readAt)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// MarkRead stamps every unread message in a partner's thread that was sent
// by from. It returns the number of messages marked.
func (s *Store) MarkRead(ctx context.Context, partnerID int64, from chat.Sender) (int64, error) {
	if _, err := s.GetPartner(ctx, partnerID); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET read_at = ? WHERE partner_id = ? AND sender = ? AND read_at IS NULL
	`, s.timestamp(), partnerID, string(from))
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return n, nil
}
