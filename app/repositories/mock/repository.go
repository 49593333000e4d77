package mock

import (
	"context"
	"sync"

	"quill/app/models"
	"quill/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is an in-memory repositories.UserRepository for tests.
type UserRepository struct {
	users map[primitive.ObjectID]*models.User
	mutex sync.RWMutex
}

// PostRepository is an in-memory repositories.PostRepository for tests.
type PostRepository struct {
	posts map[primitive.ObjectID]*models.Post
	mutex sync.RWMutex
}

var (
	_ repositories.UserRepository = (*UserRepository)(nil)
	_ repositories.PostRepository = (*PostRepository)(nil)
)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (m *UserRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.users = make(map[primitive.ObjectID]*models.User)
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[primitive.ObjectID]*models.Post)
}

// UserRepository implementation
func (m *UserRepository) Create(_ context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	user.BeforeCreate()
	for _, u := range m.users {
		if u.UserName == user.UserName {
			return repositories.ErrDuplicateUserName
		}
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (m *UserRepository) GetByUserName(_ context.Context, userName string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if user.UserName == userName {
			out := *user
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) GetMany(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	users := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if user, exists := m.users[id]; exists {
			out := *user
			users[id] = &out
		}
	}
	return users, nil
}

func (m *UserRepository) Update(_ context.Context, id primitive.ObjectID, fn func(*models.User) error) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	user := *stored
	if err := fn(&user); err != nil {
		return nil, err
	}
	user.ID = id
	if user.UserName != stored.UserName {
		for otherID, other := range m.users {
			if otherID != id && other.UserName == user.UserName {
				return nil, repositories.ErrDuplicateUserName
			}
		}
	}
	m.users[id] = &user
	out := user
	return &out, nil
}

// PostRepository implementation
func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.BeforeCreate()
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *PostRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return clonePost(post), nil
}

func (m *PostRepository) ListPage(_ context.Context, offset, limit int) ([]*models.Post, int, error) {
	m.mutex.RLock()
	posts := make([]*models.Post, 0, len(m.posts))
	for _, post := range m.posts {
		posts = append(posts, clonePost(post))
	}
	m.mutex.RUnlock()

	repositories.SortNewestFirst(posts)

	total := len(posts)
	if offset < 0 {
		offset = 0
	}
	if offset >= total || limit <= 0 {
		return []*models.Post{}, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return posts[offset:end], total, nil
}

func (m *PostRepository) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]*models.Post, error) {
	m.mutex.RLock()
	posts := []*models.Post{}
	for _, post := range m.posts {
		if post.Author == authorID {
			posts = append(posts, clonePost(post))
		}
	}
	m.mutex.RUnlock()

	repositories.SortNewestFirst(posts)
	return posts, nil
}

func (m *PostRepository) Update(_ context.Context, id primitive.ObjectID, fn func(*models.Post) error) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	post := clonePost(stored)
	if err := fn(post); err != nil {
		return nil, err
	}
	post.ID = id
	post.Author = stored.Author
	m.posts[id] = post
	return clonePost(post), nil
}

func (m *PostRepository) DeleteIf(_ context.Context, id primitive.ObjectID, fn func(*models.Post) error) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, exists := m.posts[id]
	if !exists {
		return repositories.ErrNotFound
	}
	if err := fn(clonePost(post)); err != nil {
		return err
	}
	delete(m.posts, id)
	return nil
}

// clonePost deep-copies a post so callers never share slices with the store.
func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]models.Like{}, p.Likes...)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}
