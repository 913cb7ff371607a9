package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSM overlays parameters stored under SSM_PARAMETER_PATH onto the environment map.
// It is a no-op when the path is not configured.
func LoadSSM(ctx context.Context, c map[string]string) error {
	prefix := GetString(c, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(GetString(c, "AWS_REGION", "us-east-1")))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	return OverlaySSM(ctx, c, ssm.NewFromConfig(cfg), prefix)
}

// OverlaySSM copies every parameter under prefix into c, keyed by its upper-cased relative name:
// /devsearch/prod/smtp_password becomes SMTP_PASSWORD.
func OverlaySSM(ctx context.Context, c map[string]string, client ssm.GetParametersByPathAPIClient, prefix string) error {
	prefix = strings.TrimSuffix(prefix, "/")

	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("read ssm parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			name := aws.ToString(p.Name)
			key := parameterKey(prefix, name)
			if key == "" {
				continue
			}
			c[key] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", prefix).Int("parameters", loaded).Msg("loaded configuration from SSM")
	return nil
}

func parameterKey(prefix, name string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(name, prefix), "/")
	rel = strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(rel)
	return strings.ToUpper(rel)
}
