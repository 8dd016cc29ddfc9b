package billboard

import "database/sql"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs             []string
	username          string
	password          string
	dimensions        int
	interestWeight    float64
	demographicWeight float64
	embedder          Embedder
	billsDB           *sql.DB
}

// WithRedis sets the redis connection for the vector index and profile store.
func WithRedis(password string, addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithRedisUsername sets the redis ACL username.
func WithRedisUsername(username string) Option {
	return func(c *clientConfig) {
		c.username = username
	}
}

// WithEmbedder sets the embedding provider. Required for recommendations
// and semantic search.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithBillDB sets the bill metadata database. Without it results carry
// placeholder titles and summaries.
func WithBillDB(db *sql.DB) Option {
	return func(c *clientConfig) {
		c.billsDB = db
	}
}

// WithDimensions overrides the vector width (default 384).
func WithDimensions(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.dimensions = n
		}
	}
}

// WithFusionWeights overrides the interest/demographic fusion weights
// (default 0.8/0.2).
func WithFusionWeights(interest, demographic float64) Option {
	return func(c *clientConfig) {
		c.interestWeight = interest
		c.demographicWeight = demographic
	}
}
