package config

// EnvPrefix is empty because every variable carries the CANOPY_ prefix in its tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "CANOPY_APP_ENV"
	EnvPort     = "CANOPY_APP_PORT"
	EnvDBDSN    = "CANOPY_DB_DSN"
	EnvDBHost   = "CANOPY_DB_HOST"
	EnvDBUser   = "CANOPY_DB_USER"
	EnvDBName   = "CANOPY_DB_NAME"
	EnvRedisURL = "CANOPY_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
