package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Api struct {
	HTTPAddr string `yaml:"http_addr"`
}

type Auth struct {
	Token string `yaml:"token"`
}

type Store struct {
	KeyPrefix       string `yaml:"key_prefix"`
	CapacityInBytes int    `yaml:"capacity_in_bytes"`
}

type Server struct {
	API   Api   `yaml:"api"`
	Auth  Auth  `yaml:"auth"`
	Store Store `yaml:"store"`
}

func Parse(path string) (Server, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Server{}, fmt.Errorf("can't read config file: %w", err)
	}

	var cfg Server
	if err = yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Server{}, fmt.Errorf("can't unmarshal config: %w", err)
	}

	return cfg, nil
}

func (s Server) Validate() error {
	if s.API.HTTPAddr == "" {
		return fmt.Errorf("api.http_addr must be set")
	}
	if s.Auth.Token == "" {
		return fmt.Errorf("auth.token must be set")
	}
	if s.Store.KeyPrefix == "" {
		return fmt.Errorf("store.key_prefix must be set")
	}

	return nil
}
