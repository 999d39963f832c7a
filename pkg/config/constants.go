package config

const (
	EnvPrefix = "APEXBILL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "APEXBILL_DB_DSN"
	EnvDBHost = "APEXBILL_DB_HOST"
	EnvDBUser = "APEXBILL_DB_USER"
	EnvDBName = "APEXBILL_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
