package contextkeys

// Custom key type avoids collisions with other packages storing values
// in the same context.
type contextKey string

// DBContextKey is the key under which the *gorm.DB handle (pool or
// per-request transaction) is stored in gin.Context.
const DBContextKey = contextKey("db")
