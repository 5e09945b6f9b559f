package s3

import (
	"context"
	"fmt"
	"io"
	"mime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Options configures an S3-compatible bucket (AWS, Cloudflare R2, ...).
type Options struct {
	Endpoint  string // empty for AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicACL bool // mark uploads public-read
	PathStyle bool
}

type Client struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicACL bool
}

// New initializes a client with static credentials. It does not touch the network.
func New(ctx context.Context, o Options) (*Client, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	region := o.Region
	if region == "" {
		region = "auto"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = o.PathStyle
	})

	return &Client{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    o.Bucket,
		publicACL: o.PublicACL,
	}, nil
}

// Put uploads r under key.
func (c *Client) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if c.publicACL {
		in.ACL = types.ObjectCannedACLPublicRead
	}
	if _, err := c.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("s3: put object %s: %w", key, err)
	}
	return nil
}

// Delete removes the object at key.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete object %s: %w", key, err)
	}
	return nil
}

// PresignGet creates a presigned GET URL valid for expiry. A non-empty filename is sent back
// to the browser as an attachment name.
func (c *Client) PresignGet(ctx context.Context, key string, expiry time.Duration, filename string) (string, error) {
	in := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if filename != "" {
		in.ResponseContentDisposition = aws.String(AttachmentDisposition(filename))
	}
	req, err := c.presigner.PresignGetObject(ctx, in, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("s3: presign download %s: %w", key, err)
	}
	return req.URL, nil
}

// AttachmentDisposition formats a Content-Disposition header value for filename.
func AttachmentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
