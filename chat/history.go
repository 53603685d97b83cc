// Package chat runs the AI assistant conversation loop and persists
// per-user chat history.
package chat

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	apperr "github.com/avinashraj/todokit/errors"
)

var historyBucket = []byte("chat_history")

// Message is one stored chat turn. Only user and assistant turns are
// persisted; tool traffic stays inside a single Send call.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryStore keeps chat transcripts in bbolt, one nested bucket per
// user keyed by a monotonic sequence so iteration order is
// chronological.
type HistoryStore struct {
	db *bolt.DB
}

// NewHistoryStore creates the store and its root bucket.
func NewHistoryStore(db *bolt.DB) (*HistoryStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historyBucket)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "create history bucket")
	}
	return &HistoryStore{db: db}, nil
}

// Append stores a message at the end of the user's transcript.
func (s *HistoryStore) Append(userID uuid.UUID, role, content string) (Message, error) {
	msg := Message{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		user, err := tx.Bucket(historyBucket).CreateBucketIfNotExists(userID[:])
		if err != nil {
			return err
		}
		seq, err := user.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		return user.Put(key, data)
	})
	if err != nil {
		return Message{}, apperr.Wrap(err, apperr.CodeInternal, "append chat message")
	}
	return msg, nil
}

// Recent returns the newest limit messages in chronological order.
// A non-positive limit returns the full transcript.
func (s *HistoryStore) Recent(userID uuid.UUID, limit int) ([]Message, error) {
	var messages []Message

	err := s.db.View(func(tx *bolt.Tx) error {
		user := tx.Bucket(historyBucket).Bucket(userID[:])
		if user == nil {
			return nil
		}
		return user.ForEach(func(_, v []byte) error {
			var msg Message
			if err := json.Unmarshal(v, &msg); err != nil {
				return err
			}
			messages = append(messages, msg)
			return nil
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "read chat history")
	}

	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// Clear drops the user's entire transcript.
func (s *HistoryStore) Clear(userID uuid.UUID) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(historyBucket)
		if root.Bucket(userID[:]) == nil {
			return nil
		}
		return root.DeleteBucket(userID[:])
	})
	if err != nil {
		return apperr.Wrap(err, apperr.CodeInternal, "clear chat history")
	}
	return nil
}
