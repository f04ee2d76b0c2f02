package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "BAZAARBUDDY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "BAZAARBUDDY_DB_DSN"
	EnvDBHost = "BAZAARBUDDY_DB_HOST"
	EnvDBUser = "BAZAARBUDDY_DB_USER"
	EnvDBName = "BAZAARBUDDY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
