package config

type DetectSecretData struct {
	ApiKey string `json:"apiKey"`
}

type PostgresSecretData struct {
	ConnectionString string `json:"connectionString"`
}
