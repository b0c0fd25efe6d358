package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(JWTSecret, "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "5000", cfg.Server.Port)
	require.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	require.Equal(t, DriverPostgres, cfg.Database.Driver)
	require.Equal(t, ProviderLocal, cfg.Auth.Provider)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWTTTL)
	require.Equal(t, 10, cfg.Auth.BcryptCost)
	require.Equal(t, 14*24*time.Hour, cfg.Auction.DefaultDuration)
	require.False(t, cfg.Redis.Enabled())
	require.False(t, cfg.Kafka.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv(Port, "9090")
	t.Setenv(StoreDriver, "MONGO")
	t.Setenv(AuthProvider, "hosted")
	t.Setenv(SupabaseURL, "https://project.supabase.co/")
	t.Setenv(SupabaseKey, "anon-key")
	t.Setenv(KafkaBrokers, "kafka-1:9092, kafka-2:9092")
	t.Setenv(RedisAddr, "redis:6379")
	t.Setenv(CORSAllowedOrigins, "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, DriverMongo, cfg.Database.Driver)
	require.Equal(t, ProviderHosted, cfg.Auth.Provider)
	require.Equal(t, "https://project.supabase.co", cfg.Auth.SupabaseURL)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	require.True(t, cfg.Redis.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "5000"},
			Database: DatabaseConfig{Driver: DriverMemory},
			Auth:     AuthConfig{Provider: ProviderLocal, JWTSecret: "s", JWTTTL: time.Hour},
			Kafka:    KafkaConfig{Topic: "events"},
			Auction:  AuctionConfig{DefaultDuration: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing_port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "server port is required"},
		{name: "unknown_driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: "unknown store driver"},
		{name: "postgres_without_url", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, wantErr: "database URL is required"},
		{name: "mongo_without_uri", mutate: func(c *Config) { c.Database.Driver = DriverMongo }, wantErr: "mongo URI and database are required"},
		{name: "local_without_secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "JWT secret is required"},
		{name: "hosted_without_key", mutate: func(c *Config) { c.Auth.Provider = ProviderHosted }, wantErr: "supabase URL and key are required"},
		{name: "unknown_provider", mutate: func(c *Config) { c.Auth.Provider = "ldap" }, wantErr: "unknown auth provider"},
		{name: "kafka_without_topic", mutate: func(c *Config) {
			c.Kafka.Brokers = []string{"localhost:9092"}
			c.Kafka.Topic = ""
		}, wantErr: "kafka topic is required"},
		{name: "zero_auction_duration", mutate: func(c *Config) { c.Auction.DefaultDuration = 0 }, wantErr: "default auction duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
