package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfig(t *testing.T) {
	want := Server{
		API:  Api{HTTPAddr: "0.0.0.0:8002"},
		Auth: Auth{Token: "device-shared-token"},
		Store: Store{
			KeyPrefix:       "uploads",
			CapacityInBytes: 104857600,
		},
	}

	got, err := Parse("config.yml")

	assert.NoError(t, got.Validate())
	assert.Equal(t, nil, err)
	assert.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	cfg := Server{
		API:   Api{HTTPAddr: "0.0.0.0:8002"},
		Auth:  Auth{Token: "t"},
		Store: Store{KeyPrefix: "uploads"},
	}
	assert.NoError(t, cfg.Validate())

	missingAddr := cfg
	missingAddr.API.HTTPAddr = ""
	assert.Error(t, missingAddr.Validate())

	missingToken := cfg
	missingToken.Auth.Token = ""
	assert.Error(t, missingToken.Validate())

	missingPrefix := cfg
	missingPrefix.Store.KeyPrefix = ""
	assert.Error(t, missingPrefix.Validate())
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse("does-not-exist.yml")
	assert.Error(t, err)
}
