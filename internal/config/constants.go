package config

// DefaultDatabasePath is the default path for the application database
const DefaultDatabasePath = "./scribe.db"

// DefaultBcryptCost is the password hashing cost used when no explicit
// cost is configured.
const DefaultBcryptCost = 12
