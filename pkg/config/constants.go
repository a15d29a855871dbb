package config

// EnvPrefix is intentionally empty: every variable names its full
// ECOMMAPP_-prefixed key in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CategoryDeleteCascade  = "cascade"
	CategoryDeleteRestrict = "restrict"
)

// DriverSQLite and DefaultSQLiteDSN back the ECOMMAPP_USE_SQLITE dev flag.
const (
	DriverSQLite     = "sqlite"
	DefaultSQLiteDSN = "file:ecommapp.db?cache=shared"
)

const (
	EnvDBDSN  = "ECOMMAPP_DB_DSN"
	EnvDBHost = "ECOMMAPP_DB_HOST"
	EnvDBUser = "ECOMMAPP_DB_USER"
	EnvDBName = "ECOMMAPP_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
