package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Secret names the registry reads at startup.
const (
	SecretDBCredentials = "bunubon/DB_CREDENTIALS"
	SecretJWT           = "bunubon/JWT_SECRET"
)

// ErrSecretEmpty is returned when a secret exists but carries no usable value.
var ErrSecretEmpty = errors.New("secret is empty")

// DBCredentials is the JSON document stored under SecretDBCredentials. Empty
// fields mean "keep the environment value".
type DBCredentials struct {
	User     string `json:"POSTGRES_USER"`
	Password string `json:"POSTGRES_PASSWORD"`
	DBName   string `json:"POSTGRES_DB"`
	Host     string `json:"POSTGRES_HOST"`
	Port     string `json:"POSTGRES_PORT"`
}

type secretValueAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// RegistrySecrets reads the registry's secrets from Secrets Manager. Values are
// fetched once per process.
type RegistrySecrets struct {
	api   secretValueAPI
	mu    sync.Mutex
	cache map[string]string
}

func NewRegistrySecrets(cfg sdkaws.Config) *RegistrySecrets {
	return newRegistrySecrets(secretsmanager.NewFromConfig(cfg))
}

func newRegistrySecrets(api secretValueAPI) *RegistrySecrets {
	return &RegistrySecrets{api: api, cache: make(map[string]string)}
}

// DBCredentials decodes SecretDBCredentials.
func (s *RegistrySecrets) DBCredentials(ctx context.Context) (*DBCredentials, error) {
	raw, err := s.value(ctx, SecretDBCredentials)
	if err != nil {
		return nil, err
	}
	var creds DBCredentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", SecretDBCredentials, err)
	}
	return &creds, nil
}

// JWTSecret returns the token signing key.
func (s *RegistrySecrets) JWTSecret(ctx context.Context) (string, error) {
	return s.value(ctx, SecretJWT)
}

func (s *RegistrySecrets) value(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.cache[name]; ok {
		return v, nil
	}

	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return "", fmt.Errorf("%s: %w", name, ErrSecretEmpty)
	}

	s.cache[name] = *out.SecretString
	return *out.SecretString, nil
}
