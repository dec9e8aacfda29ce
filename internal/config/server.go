package config

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port     string `env:"PORT" envDefault:"8080"`
	MediaDir string `env:"MEDIA_DIR" envDefault:"static/images"`
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(environ map[string]string) (ServerConfig, error) {
	return parse[ServerConfig](environ)
}
