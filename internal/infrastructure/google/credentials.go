// Package google builds authenticated client options for Google APIs.
package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// ClientOptions reads a service-account key from credentialsFile and returns
// the options that authenticate a Google API client for scopes.
func ClientOptions(ctx context.Context, credentialsFile string, scopes ...string) ([]option.ClientOption, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("google credentials file is not set")
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}

	return ClientOptionsFromJSON(ctx, data, scopes...)
}

// ClientOptionsFromJSON is ClientOptions for an in-memory key.
func ClientOptionsFromJSON(ctx context.Context, data []byte, scopes ...string) ([]option.ClientOption, error) {
	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	return []option.ClientOption{option.WithCredentials(creds)}, nil
}
