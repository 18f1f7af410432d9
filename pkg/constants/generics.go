package constants

import "time"

// Default HTTP server configuration
const (
	// DefaultPort is the listen port used when PORT is not set
	DefaultPort = "10000"
	// DefaultRequestTimeout bounds a single request, including its queries
	DefaultRequestTimeout = 30 * time.Second
	// DefaultKeepAliveTimeout keeps idle client connections open between requests
	DefaultKeepAliveTimeout = 120 * time.Second
	// DefaultHeadersTimeout bounds how long a client may take to send request headers
	DefaultHeadersTimeout = 120 * time.Second
)

// Default database configuration
const (
	DefaultDBDriver = "mysql"
	DefaultDBHost   = "localhost"
	DefaultDBUser   = "root"
	DefaultDBName   = "college"

	DefaultMySQLPort    = 3306
	DefaultPostgresPort = 5432

	// DefaultDBConnectTimeout bounds connection establishment to the store
	DefaultDBConnectTimeout = 10 * time.Second
)
