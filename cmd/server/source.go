package main

import (
	"context"
	"fmt"
	"net/http"

	"patientdir/internal/patient/source"
	"patientdir/internal/patient/store"
	"patientdir/internal/platform/config"
	"patientdir/internal/platform/redis"
)

// newSource builds the configured document source. The returned func
// releases any connection the source holds.
func newSource(ctx context.Context, cfg config.Config) (store.Source, func(), error) {
	noop := func() {}
	switch cfg.Source.Kind {
	case config.SourceHTTP:
		return source.NewHTTP(cfg.Source.URL, &http.Client{Timeout: cfg.Source.LoadTimeout}), noop, nil
	case config.SourceS3:
		src, err := source.NewS3(ctx, source.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Key:             cfg.S3.Key,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("s3 source: %w", err)
		}
		return src, noop, nil
	case config.SourceRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, fmt.Errorf("redis source: %w", err)
		}
		return source.NewRedis(client, cfg.Redis.Key), func() { _ = client.Close() }, nil
	default:
		return source.NewFile(cfg.Source.File), noop, nil
	}
}
