package ceph

import (
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "XATTRTEST_S3"

// Config holds the object store settings, read from XATTRTEST_S3_* variables.
type Config struct {
	Region     string `envconfig:"REGION"      default:"us-east-1"`
	Endpoint   string `envconfig:"ENDPOINT"    required:"true"`
	Bucket     string `envconfig:"BUCKET"      required:"true"`
	AccessKey  string `envconfig:"ACCESS_KEY"`
	SecretKey  string `envconfig:"SECRET_KEY"`
	DisableSSL bool   `envconfig:"DISABLE_SSL" default:"true"`
}

func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
