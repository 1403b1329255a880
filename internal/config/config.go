package config

type Config interface {
	EnvConfig
	GoogleConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleIssuer() string
	GetHostedDomain() string
	GetDiscoverEndpoints() bool
}

type mainConfig struct {
	EnvVars
	Google
}

func New() Config {
	return mainConfig{}
}
