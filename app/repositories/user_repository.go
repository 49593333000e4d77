package repositories

import (
	"context"
	"errors"

	"quill/app/models"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BadgerUserRepository implements UserRepository using BadgerDB. Each user
// is stored under user:<id> with a username:<userName> index key pointing at
// the ID; both are written in the same transaction.
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a new user, failing with ErrDuplicateUserName when the login
// name is taken.
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	user.BeforeCreate()

	return update(ctx, r.db, func(txn *badger.Txn) error {
		taken, err := keyExists(txn, userNameKey(user.UserName))
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateUserName
		}

		if err := txn.Set(userNameKey(user.UserName), user.ID[:]); err != nil {
			return err
		}
		return setEntity(txn, userKey(user.ID), user)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUserName retrieves a user by login name, matched exactly.
func (r *BadgerUserRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		item, err := txn.Get(userNameKey(userName))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var id primitive.ObjectID
		err = item.Value(func(val []byte) error {
			copy(id[:], val)
			return nil
		})
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMany retrieves the users that exist among ids. Missing IDs are skipped.
func (r *BadgerUserRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	users := make(map[primitive.ObjectID]*models.User, len(ids))
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		for _, id := range ids {
			if _, seen := users[id]; seen {
				continue
			}
			var user models.User
			err := getEntity(txn, userKey(id), &user)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			users[id] = &user
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies fn to the stored user. When fn changes the login name the
// index key moves in the same transaction.
func (r *BadgerUserRepository) Update(ctx context.Context, id primitive.ObjectID, fn func(*models.User) error) (*models.User, error) {
	var user models.User
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		user = models.User{}
		if err := getEntity(txn, userKey(id), &user); err != nil {
			return err
		}

		oldUserName := user.UserName
		if err := fn(&user); err != nil {
			return err
		}
		user.ID = id

		if user.UserName != oldUserName {
			taken, err := keyExists(txn, userNameKey(user.UserName))
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateUserName
			}
			if err := txn.Delete(userNameKey(oldUserName)); err != nil {
				return err
			}
			if err := txn.Set(userNameKey(user.UserName), id[:]); err != nil {
				return err
			}
		}

		return setEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
