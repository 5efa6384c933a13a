package config

import "time"

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

type ServerConfig struct {
	Addr         string        `config:"addr" validate:"required"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
}

// ContainerConfig controls the root dependency container built by core.App.
type ContainerConfig struct {
	Name string `config:"name" validate:"required"`
	// LockAfterConfigure freezes the root container once every module has
	// registered its resolvers.
	LockAfterConfigure bool `config:"lockAfterConfigure"`
}

type LoggingConfig struct {
	Level  string `config:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `config:"format" validate:"omitempty,oneof=text json"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	BasePath string `config:"basePath"`
}

type Root struct {
	App           AppInfo             `config:"app"`
	Server        ServerConfig        `config:"server"`
	Container     ContainerConfig     `config:"container"`
	Logging       LoggingConfig       `config:"logging"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
}

// Defaults is the lowest-precedence layer applied by Load.
func Defaults() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"addr": ":8080",
		},
		"container": map[string]any{
			"name":               "root",
			"lockAfterConfigure": true,
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"observability": map[string]any{
			"metrics": map[string]any{
				"enabled": true,
				"path":    "/metrics",
			},
		},
		"actuator": map[string]any{
			"basePath": "/actuator",
		},
	}
}
