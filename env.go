package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// envConfig is the environment side of the configuration.
type envConfig struct {
	AccessKey    string `env:"AWS_ACCESS_KEY_ID"`
	SecretKey    string `env:"AWS_SECRET_ACCESS_KEY"`
	SessionToken string `env:"AWS_SESSION_TOKEN"`
	Region       string `env:"AWS_REGION"`
	BucketName   string `env:"AWS_BUCKET_NAME"`
	Endpoint     string `env:"AWS_ENDPOINT_URL"`
	LogFile      string `env:"S3_UPLOAD_LOG_FILE"`
	LogLevel     string `env:"S3_UPLOAD_LOG_LEVEL"`
}

// loadEnv reads dotenv (if it exists) into the process environment without
// overriding variables already set, then decodes the environment.
func loadEnv(dotenv string) (*options, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", dotenv, err)
		}
	}

	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	return &options{
		AccessKey:    env.AccessKey,
		SecretKey:    env.SecretKey,
		SessionToken: env.SessionToken,
		Region:       env.Region,
		BucketName:   env.BucketName,
		Endpoint:     env.Endpoint,
		LogFile:      env.LogFile,
		LogLevel:     env.LogLevel,
	}, nil
}
