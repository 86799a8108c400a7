package pgutil

import (
	"context"
	"fmt"
	"net/url"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geep/geep-go-sdk/pkg/settings"
)

// BuildURI constructs the PostgreSQL connection string from the settings.
// Local and CI environments use direct credentials; deployed environments
// omit the password (an IAM token is generated per connection, see
// NewPool) and require TLS.
func BuildURI(s settings.Settings) string {
	if s.IsLocal() {
		return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
			url.QueryEscape(s.DBUser), url.QueryEscape(s.DBPassword),
			s.DBHost, s.DBPort, s.DBName)
	}

	return fmt.Sprintf("postgresql://%s@%s:%d/%s?sslmode=require",
		url.QueryEscape(s.DBUser), s.DBHost, s.DBPort, s.DBName)
}

// NewPool creates the PostgreSQL connection pool. Outside local/CI, every
// new connection authenticates with a freshly generated RDS IAM token and
// connections are recycled after five minutes, keeping the token within
// its validity window.
func NewPool(ctx context.Context, s settings.Settings) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(BuildURI(s))
	if err != nil {
		return nil, fmt.Errorf("parse database URI: %w", err)
	}

	if !s.IsLocal() {
		awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(s.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}

		endpoint := fmt.Sprintf("%s:%d", s.DBHost, s.DBPort)
		config.MaxConnLifetime = 5 * time.Minute

		config.BeforeConnect = func(ctx context.Context, cc *pgx.ConnConfig) error {
			token, err := auth.BuildAuthToken(ctx, endpoint, s.AWSRegion,
				s.DBUser, awsConfig.Credentials)
			if err != nil {
				return fmt.Errorf("generate database auth token: %w", err)
			}

			cc.Password = token
			return nil
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return pool, nil
}
