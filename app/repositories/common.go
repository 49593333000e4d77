package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"quill/app/models"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUserName = errors.New("user name already taken")
)

const (
	// Key prefixes for different entity types
	UserKeyPrefix     = "user:"
	UserNameKeyPrefix = "username:"
	PostKeyPrefix     = "post:"
	AuthorKeyPrefix   = "author:"

	// maxTxnAttempts bounds retries of a transaction aborted by a concurrent
	// write to the same keys.
	maxTxnAttempts = 16
)

func userKey(id primitive.ObjectID) []byte {
	return []byte(UserKeyPrefix + id.Hex())
}

func userNameKey(userName string) []byte {
	return []byte(UserNameKeyPrefix + userName)
}

func postKey(id primitive.ObjectID) []byte {
	return []byte(PostKeyPrefix + id.Hex())
}

func authorPrefix(authorID primitive.ObjectID) []byte {
	return []byte(AuthorKeyPrefix + authorID.Hex() + ":")
}

func authorKey(authorID, postID primitive.ObjectID) []byte {
	return append(authorPrefix(authorID), postID.Hex()...)
}

// marshalEntity marshals an entity to BSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := bson.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals BSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := bson.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads the document stored under key into entity.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity stores entity under key.
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// keyExists reports whether key is present.
func keyExists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// update runs fn in a read-write transaction, retrying when badger aborts the
// commit because another transaction wrote a key this one read.
func update(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("transaction retries exhausted: %w", err)
}

// view runs fn in a read-only transaction.
func view(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.View(fn)
}

// SortNewestFirst orders posts by creation time descending, ties by ID
// descending. Every listing returns posts in this order.
func SortNewestFirst(posts []*models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		return newerThan(posts[i].CreatedAt, posts[i].ID, posts[j].CreatedAt, posts[j].ID)
	})
}

func newerThan(aTime time.Time, aID primitive.ObjectID, bTime time.Time, bID primitive.ObjectID) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aID.Hex() > bID.Hex()
}
