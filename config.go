package canary

import (
	"fmt"
	"net"
	"strconv"
)

// Config holds the connection settings for the job log backing store.
type Config struct {
	// Cluster lists the store hosts. Only the first host is dialed; the
	// driver talks to a single endpoint.
	Cluster []string `mapstructure:"cluster" yaml:"cluster"`

	// Port is the TCP port of the store.
	Port int `mapstructure:"port" yaml:"port"`

	// DB is the logical database index.
	DB int `mapstructure:"db" yaml:"db"`
}

// DefaultConfig returns a Config with the deployment defaults.
func DefaultConfig() Config {
	return Config{
		Cluster: []string{"127.0.0.1"},
		Port:    6379,
		DB:      4,
	}
}

// Validate reports whether the config names a usable endpoint.
func (c Config) Validate() error {
	if len(c.Cluster) == 0 || c.Cluster[0] == "" {
		return ErrNoEndpoint
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.DB < 0 {
		return fmt.Errorf("%w: negative db index %d", ErrInvalidConfig, c.DB)
	}
	return nil
}

// Addr returns the host:port of the endpoint the driver connects to.
func (c Config) Addr() string {
	host := ""
	if len(c.Cluster) > 0 {
		host = c.Cluster[0]
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Port))
}
