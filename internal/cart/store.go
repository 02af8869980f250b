package cart

import "context"

// Store persists carts by session key.
type Store interface {
	Load(ctx context.Context, key string) (*Cart, error)
	Save(ctx context.Context, key string, c *Cart) error
	Delete(ctx context.Context, key string) error
}

// Session keys. Authenticated shoppers use their user id, guests the id
// carried in the cart cookie.
func UserKey(userID string) string  { return "user:" + userID }
func GuestKey(cartID string) string { return "guest:" + cartID }
