package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marcelsud/bookshelf/book"
	"github.com/redis/go-redis/v9"
)

/* Read-through cache for single book lookups.
 * Everything that is not Select/Update/Delete goes straight to the wrapped store.
 * A failing cache never fails the request: the wrapped store is the source of truth.
 * Writers bump book:{id}:version; a fill only lands if that key did not change
 * while the book was read from the store.
 */

const keyPrefix = "book" // book:{id}

type Repository struct {
	book.Repository
	client *redis.Client
	ttl    time.Duration
}

// NewClient creates a Redis client and checks the connection
func NewClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return client, nil
}

// NewRepository wraps store with a cache kept in client for ttl
func NewRepository(store book.Repository, client *redis.Client, ttl time.Duration) *Repository {
	return &Repository{
		Repository: store,
		client:     client,
		ttl:        ttl,
	}
}

func key(id int64) string {
	return fmt.Sprintf("%s:%d", keyPrefix, id)
}

func versionKey(id int64) string {
	return key(id) + ":version"
}

type cachedBook struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (r *Repository) Select(ctx context.Context, id int64) (book.Book, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if err == nil {
		var c cachedBook
		if json.Unmarshal(data, &c) == nil {
			return book.Book{ID: c.ID, Title: c.Title, Author: c.Author}, nil
		}
	}

	var (
		b       book.Book
		readErr error
		read    bool
	)
	// WATCH aborts the SET when a writer bumped the version in the meantime
	r.client.Watch(ctx, func(tx *redis.Tx) error {
		b, readErr = r.Repository.Select(ctx, id)
		read = true
		if readErr != nil {
			return readErr
		}
		data, err := json.Marshal(cachedBook{ID: b.ID, Title: b.Title, Author: b.Author})
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(id), data, r.ttl)
			return nil
		})
		return err
	}, versionKey(id))
	if !read {
		b, readErr = r.Repository.Select(ctx, id)
	}
	if readErr != nil {
		return book.Book{}, readErr
	}
	return b, nil
}

func (r *Repository) Update(ctx context.Context, b book.Book) error {
	r.evict(ctx, b.ID)
	if err := r.Repository.Update(ctx, b); err != nil {
		return err
	}
	r.evict(ctx, b.ID)
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.evict(ctx, id)
	err := r.Repository.Delete(ctx, id)
	if err != nil && !errors.Is(err, book.ErrNotFound) {
		return err
	}
	r.evict(ctx, id)
	return err
}

// evict drops the cached book and invalidates fills that are still in flight
func (r *Repository) evict(ctx context.Context, id int64) {
	r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), r.ttl)
		pipe.Del(ctx, key(id))
		return nil
	})
}

// Close closes the wrapped store and the Redis client
func (r *Repository) Close(ctx context.Context) error {
	if err := r.Repository.Close(ctx); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("closing Redis client: %w", err)
	}
	return nil
}
