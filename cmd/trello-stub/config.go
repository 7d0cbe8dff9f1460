package main

import (
	"context"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
)

type StorageType string

const (
	StorageMemory   StorageType = "memory"
	StoragePostgres StorageType = "postgres"
)

type AppConfig struct {
	servicePort     string
	storageType     StorageType
	policyPath      string
	seedPath        string
	webhookEndpoint string
}

func LoadConfiguration(ctx context.Context) *AppConfig {
	return &AppConfig{
		servicePort:     env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080"),
		storageType:     StorageType(env.GetVariableOrDefault(ctx, "STORAGE_TYPE", string(StorageMemory))),
		policyPath:      env.GetVariableOrDefault(ctx, "POLICY_PATH", "/opt/trello-stub/config/authz.rego"),
		seedPath:        env.GetVariableOrDefault(ctx, "SEED_PATH", ""),
		webhookEndpoint: env.GetVariableOrDefault(ctx, "WEBHOOK_ENDPOINT", ""),
	}
}
