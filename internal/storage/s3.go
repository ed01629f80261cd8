// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage issues presigned upload URLs against S3-compatible object
// storage. Browsers PUT media directly to the bucket; the API never proxies
// file bodies. It wraps the AWS SDK v2 with path-style addressing.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"folio/internal/slug"
)

// DefaultUploadExpiry is how long a presigned upload URL stays valid.
const DefaultUploadExpiry = 15 * time.Minute

// allowedTypes maps accepted content types to the extension used in keys.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/avif":      ".avif",
	"application/pdf": ".pdf",
}

// AllowedType reports whether uploads of the content type are accepted.
func AllowedType(contentType string) bool {
	_, ok := allowedTypes[contentType]
	return ok
}

// Client wraps an S3 presign client for the public media bucket.
type Client struct {
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
	now       func() time.Time
}

// Upload is a presigned upload grant handed to the browser.
type Upload struct {
	URL       string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Key       string            `json:"key"`
	PublicURL string            `json:"public_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to start
// without storage.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		presigner: s3.NewPresignClient(s3Client),
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}, nil
}

// ObjectKey builds a collision-free key for an uploaded file:
// media/<yyyy>/<mm>/<uuid>-<slugged-name><ext>. The extension comes from the
// content type, never from the client-supplied name.
func (c *Client) ObjectKey(filename, contentType string) string {
	ext := allowedTypes[contentType]
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	name := slug.Generate(base)
	if name == "" {
		name = "file"
	}
	if len(name) > 60 {
		name = strings.Trim(name[:60], "-")
	}
	now := c.now().UTC()
	return fmt.Sprintf("media/%04d/%02d/%s-%s%s", now.Year(), int(now.Month()), uuid.NewString(), name, ext)
}

// PresignUpload returns a presigned PUT for a new object. The content type
// is part of the signature, so the browser must send the same header.
func (c *Client) PresignUpload(ctx context.Context, filename, contentType string, expires time.Duration) (*Upload, error) {
	if !AllowedType(contentType) {
		return nil, fmt.Errorf("content type %q is not allowed", contentType)
	}
	if expires <= 0 {
		expires = DefaultUploadExpiry
	}

	key := c.ObjectKey(filename, contentType)
	req, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, fmt.Errorf("s3 presign put %s/%s: %w", c.bucket, key, err)
	}

	return &Upload{
		URL:       req.URL,
		Method:    req.Method,
		Headers:   map[string]string{"Content-Type": contentType},
		Key:       key,
		PublicURL: c.FileURL(key),
		ExpiresAt: c.now().Add(expires).UTC(),
	}, nil
}

// FileURL returns the public URL for an object in the bucket.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// Bucket returns the name of the media bucket.
func (c *Client) Bucket() string {
	return c.bucket
}
