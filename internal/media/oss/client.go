package oss

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/telemon/telemon/internal/conf"
)

// Client S3 兼容对象存储客户端，帧图片所在桶的迁移与写入
type Client struct {
	client *s3.Client
	cfg    conf.Oss
	log    *slog.Logger
}

// NewClient creates a new object storage client
// Endpoint 非空时按 MinIO 等自建服务配置：静态凭据 + path-style 地址
func NewClient(ctx context.Context, cfg conf.Oss) (*Client, error) {
	log := slog.With("module", "oss")

	configOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		configOpts = append(configOpts,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		log.Info("configuring object storage for custom endpoint", "endpoint", cfg.Endpoint)
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	log.Info("object storage client created", "region", cfg.Region, "bucket", cfg.Bucket)

	return &Client{
		client: s3.NewFromConfig(awsCfg, clientOpts...),
		cfg:    cfg,
		log:    log,
	}, nil
}

// Relocate 将来源帧复制到已标记区并返回新引用
// 只复制不删除来源，失败时目标不产生，重试安全
func (c *Client) Relocate(ctx context.Context, sourceURI string) (string, error) {
	destURI, err := DeriveLabeledURI(sourceURI)
	if err != nil {
		return "", err
	}
	srcKey, err := ObjectKey(sourceURI)
	if err != nil {
		return "", err
	}
	destKey, err := ObjectKey(destURI)
	if err != nil {
		return "", err
	}

	_, err = c.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.cfg.Bucket),
		CopySource: aws.String(c.cfg.Bucket + "/" + srcKey),
		Key:        aws.String(destKey),
	})
	if err != nil {
		c.log.ErrorContext(ctx, "copy object failed", "src", srcKey, "dest", destKey, "err", err)
		return "", fmt.Errorf("%w: copy [%s] -> [%s]: %w", ErrRelocation, srcKey, destKey, err)
	}

	c.log.InfoContext(ctx, "frame relocated", "src", srcKey, "dest", destKey)
	return destURI, nil
}

// PutFrame 采集回调将帧写入未标记区，返回可被 Relocate 消费的引用
func (c *Client) PutFrame(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put frame [%s]: %w", key, err)
	}
	return c.FrameURI(key), nil
}

// FrameURI 拼出对象的完整引用
func (c *Client) FrameURI(key string) string {
	key = strings.TrimPrefix(key, "/")
	if c.cfg.Endpoint != "" {
		return strings.TrimSuffix(c.cfg.Endpoint, "/") + "/" + c.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.cfg.Bucket, c.cfg.Region, key)
}
