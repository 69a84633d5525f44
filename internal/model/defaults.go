package model

import "time"

// Shared defaults used by the CLI and the API server.
const (
	DefaultSkin         = "default"
	DefaultDataSource   = "catalog"
	DefaultAPIPort      = 3000
	DefaultQueryTimeout = 10 * time.Second
)
