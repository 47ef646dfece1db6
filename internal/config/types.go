package config

// Config holds all configuration for the application.
type Config struct {
	DBName             string
	Port               string
	LogLevel           string
	CORSAllowedOrigins []string
	Slack              SlackConfig
	Turso              TursoConfig
	Playtomic          PlaytomicConfig
	PubSub             PubSubConfig
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// Enabled reports whether notifications can be posted.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type PlaytomicConfig struct {
	TenantID string
}

type PubSubConfig struct {
	ProjectID string
	Topic     string
}
