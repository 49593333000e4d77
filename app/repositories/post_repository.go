package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"quill/app/models"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BadgerPostRepository implements PostRepository using BadgerDB. Likes and
// comments are embedded in the post document; an author:<authorID>:<postID>
// key indexes posts by author.
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()

	return update(ctx, r.db, func(txn *badger.Txn) error {
		if err := setEntity(txn, postKey(post.ID), post); err != nil {
			return err
		}
		return txn.Set(authorKey(post.Author, post.ID), nil)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	post.Normalize()
	return &post, nil
}

// postHeader is the part of a post document the feed is ordered by.
type postHeader struct {
	ID        primitive.ObjectID `bson:"_id"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// ListPage retrieves a page of posts, newest first. Only the ordering fields
// of every post are decoded; full documents are loaded for the window alone.
func (r *BadgerPostRepository) ListPage(ctx context.Context, offset, limit int) ([]*models.Post, int, error) {
	posts := []*models.Post{}
	var total int
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		headers, err := postHeaders(txn)
		if err != nil {
			return err
		}
		total = len(headers)

		if offset < 0 {
			offset = 0
		}
		if offset >= total || limit <= 0 {
			return nil
		}
		end := total
		if limit < total-offset {
			end = offset + limit
		}

		for _, h := range headers[offset:end] {
			var post models.Post
			if err := getEntity(txn, postKey(h.ID), &post); err != nil {
				return fmt.Errorf("failed to load post %s: %w", h.ID.Hex(), err)
			}
			post.Normalize()
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// postHeaders decodes the ordering fields of every post, newest first.
func postHeaders(txn *badger.Txn) ([]postHeader, error) {
	var headers []postHeader
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	prefix := []byte(PostKeyPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var h postHeader
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, &h)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal post %s: %w", it.Item().Key(), err)
		}
		headers = append(headers, h)
	}

	sort.Slice(headers, func(i, j int) bool {
		return newerThan(headers[i].CreatedAt, headers[i].ID, headers[j].CreatedAt, headers[j].ID)
	})
	return headers, nil
}

// ListByAuthor retrieves every post written by authorID, newest first
func (r *BadgerPostRepository) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := authorPrefix(authorID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			postID, err := primitive.ObjectIDFromHex(string(it.Item().Key()[len(prefix):]))
			if err != nil {
				return fmt.Errorf("corrupt author index key %q: %w", it.Item().Key(), err)
			}

			var post models.Post
			if err := getEntity(txn, postKey(postID), &post); err != nil {
				return err
			}
			post.Normalize()
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	SortNewestFirst(posts)
	return posts, nil
}

// Update applies fn to the stored post inside one transaction
func (r *BadgerPostRepository) Update(ctx context.Context, id primitive.ObjectID, fn func(*models.Post) error) (*models.Post, error) {
	var post models.Post
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		post = models.Post{}
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		post.Normalize()

		author := post.Author
		if err := fn(&post); err != nil {
			return err
		}
		post.ID = id
		post.Author = author

		return setEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeleteIf deletes a post and its author index entry when fn returns nil
func (r *BadgerPostRepository) DeleteIf(ctx context.Context, id primitive.ObjectID, fn func(*models.Post) error) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		var post models.Post
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		if err := fn(&post); err != nil {
			return err
		}

		if err := txn.Delete(authorKey(post.Author, id)); err != nil {
			return err
		}
		return txn.Delete(postKey(id))
	})
}
