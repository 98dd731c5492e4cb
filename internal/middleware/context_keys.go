package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// accountIDKey is the key used to store the authenticated account's ID.
const accountIDKey = contextKey("accountID")

// WithAccountID returns a copy of ctx carrying the authenticated account id.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// GetAccountIDFromContext retrieves the authenticated account ID from the Gin context.
// It returns the account ID and a boolean indicating if it was found.
func GetAccountIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(accountIDKey)); exists {
		accountID, ok := v.(string)
		return accountID, ok && accountID != ""
	}
	// check in the request context as well
	accountID, ok := c.Request.Context().Value(accountIDKey).(string)
	return accountID, ok && accountID != ""
}
