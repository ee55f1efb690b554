package repository

import (
	"context"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/database/postgres"
	"jobboard/internal/domain/messaging"

	"github.com/google/uuid"
)

type PostgresMessagingRepository struct {
	db database.DB
}

func NewPostgresMessagingRepository(db database.DB) *PostgresMessagingRepository {
	return &PostgresMessagingRepository{db: db}
}

const messageColumns = `id, conversation_id, sender_id, receiver_id, body, attachment_path, attachment_name, is_read, read_at, created_at`

func (r *PostgresMessagingRepository) FindOrCreate(ctx context.Context, c messaging.Conversation) (messaging.Conversation, bool, error) {
	n, err := r.db.Exec(ctx,
		`INSERT INTO conversations (id, candidate_id, manager_id, job_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (candidate_id, manager_id, job_id) DO NOTHING`,
		c.ID, c.CandidateID, c.ManagerID, c.JobID, c.CreatedAt,
	)
	if err != nil {
		return messaging.Conversation{}, false, err
	}

	row := r.db.QueryRow(ctx,
		`SELECT id, candidate_id, manager_id, job_id, created_at, updated_at
		 FROM conversations WHERE candidate_id = $1 AND manager_id = $2 AND job_id = $3`,
		c.CandidateID, c.ManagerID, c.JobID,
	)
	conv, err := scanConversation(row)
	if err != nil {
		return messaging.Conversation{}, false, err
	}
	return conv, n > 0, nil
}

func (r *PostgresMessagingRepository) GetByID(ctx context.Context, id uuid.UUID) (messaging.Conversation, error) {
	return scanConversation(r.db.QueryRow(ctx,
		`SELECT id, candidate_id, manager_id, job_id, created_at, updated_at FROM conversations WHERE id = $1`, id))
}

func (r *PostgresMessagingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]messaging.Summary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT cv.id, cv.candidate_id, cv.manager_id, cv.job_id, cv.created_at, cv.updated_at,
		        j.title, cu.full_name, mu.full_name,
		        (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = cv.id AND m.receiver_id = $1 AND NOT m.is_read),
		        lm.id, lm.sender_id, lm.receiver_id, lm.body, lm.attachment_path, lm.attachment_name, lm.is_read, lm.read_at, lm.created_at
		 FROM conversations cv
		 JOIN jobs j ON j.id = cv.job_id
		 JOIN users cu ON cu.id = cv.candidate_id
		 JOIN users mu ON mu.id = cv.manager_id
		 LEFT JOIN LATERAL (
		     SELECT * FROM messages m WHERE m.conversation_id = cv.id ORDER BY m.created_at DESC LIMIT 1
		 ) lm ON TRUE
		 WHERE cv.candidate_id = $1 OR cv.manager_id = $1
		 ORDER BY cv.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]messaging.Summary, 0)
	for rows.Next() {
		var s messaging.Summary
		var (
			lastID                   *uuid.UUID
			lastSender, lastReceiver *uuid.UUID
			lastBody, lastPath       *string
			lastName                 *string
			lastRead                 *bool
			lastReadAt, lastCreated  *time.Time
		)
		if err := rows.Scan(
			&s.ID, &s.CandidateID, &s.ManagerID, &s.JobID, &s.CreatedAt, &s.UpdatedAt,
			&s.JobTitle, &s.CandidateName, &s.ManagerName, &s.UnreadCount,
			&lastID, &lastSender, &lastReceiver, &lastBody, &lastPath, &lastName, &lastRead, &lastReadAt, &lastCreated,
		); err != nil {
			return nil, err
		}
		if lastID != nil {
			s.LastMessage = &messaging.Message{
				ID:             *lastID,
				ConversationID: s.ID,
				SenderID:       *lastSender,
				ReceiverID:     *lastReceiver,
				Body:           *lastBody,
				AttachmentPath: *lastPath,
				AttachmentName: *lastName,
				IsRead:         *lastRead,
				ReadAt:         lastReadAt,
				CreatedAt:      *lastCreated,
			}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMessagingRepository) CreateMessage(ctx context.Context, m messaging.Message) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO messages (id, conversation_id, sender_id, receiver_id, body, attachment_path, attachment_name, is_read, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)`,
			m.ID, m.ConversationID, m.SenderID, m.ReceiverID, m.Body, m.AttachmentPath, m.AttachmentName, m.CreatedAt,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE conversations SET updated_at = $1 WHERE id = $2`, m.CreatedAt, m.ConversationID)
		return err
	})
}

func (r *PostgresMessagingRepository) GetMessage(ctx context.Context, id uuid.UUID) (messaging.Message, error) {
	m, err := scanMessage(r.db.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil && postgres.IsNoRows(err) {
		return messaging.Message{}, messaging.ErrMessageNotFound
	}
	return m, err
}

func (r *PostgresMessagingRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]messaging.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]messaging.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMessagingRepository) MarkRead(ctx context.Context, conversationID, receiverID uuid.UUID, at time.Time) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE messages SET is_read = TRUE, read_at = $1
		 WHERE conversation_id = $2 AND receiver_id = $3 AND NOT is_read`,
		at, conversationID, receiverID,
	)
}

func (r *PostgresMessagingRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read`, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanMessage(row database.Row) (messaging.Message, error) {
	var m messaging.Message
	err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Body,
		&m.AttachmentPath, &m.AttachmentName, &m.IsRead, &m.ReadAt, &m.CreatedAt)
	return m, err
}

func scanConversation(row database.Row) (messaging.Conversation, error) {
	var c messaging.Conversation
	if err := row.Scan(&c.ID, &c.CandidateID, &c.ManagerID, &c.JobID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return messaging.Conversation{}, messaging.ErrNotFound
		}
		return messaging.Conversation{}, err
	}
	return c, nil
}

var _ messaging.Repository = (*PostgresMessagingRepository)(nil)
