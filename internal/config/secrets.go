package config

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// DBCredentials is the JSON shape of an RDS-managed secret.
type DBCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FetchDBCredentials resolves database credentials from AWS Secrets
// Manager. It is called once at startup; callers treat any failure as
// fatal since the service cannot run without a database.
func FetchDBCredentials(secretName, region string) (DBCredentials, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return DBCredentials{}, fmt.Errorf("load aws config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretName,
	})
	if err != nil {
		return DBCredentials{}, fmt.Errorf("get secret %s: %w", secretName, err)
	}
	if out.SecretString == nil {
		return DBCredentials{}, fmt.Errorf("secret %s has no string payload", secretName)
	}

	var creds DBCredentials
	if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
		return DBCredentials{}, fmt.Errorf("decode secret %s: %w", secretName, err)
	}
	if creds.Username == "" {
		return DBCredentials{}, fmt.Errorf("secret %s is missing a username", secretName)
	}
	return creds, nil
}
