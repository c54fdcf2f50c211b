// Package storage opens datasets and coefficient files by URI.
package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
)

// ErrUnsupportedScheme signals a URI scheme Open cannot handle.
var ErrUnsupportedScheme = errors.New("unsupported URI scheme")

type openOpts struct {
	s3     manager.DownloadAPIClient
	stdin  io.Reader
	region string
}

// Option is one Open option.
type Option func(*openOpts)

// WithS3Client tells Open to fetch s3:// URIs through the given client
// instead of one made from the default AWS configuration.
func WithS3Client(client manager.DownloadAPIClient) Option {
	return func(o *openOpts) { o.s3 = client }
}

// WithStdin tells Open to read "-" from r instead of os.Stdin.
func WithStdin(r io.Reader) Option {
	return func(o *openOpts) { o.stdin = r }
}

// WithRegion overrides the AWS region of the default S3 client.
func WithRegion(region string) Option {
	return func(o *openOpts) { o.region = region }
}

// Open opens the resource at the given URI for reading.
//
// Supported forms:
//
//   - "-": standard input;
//   - "path" or "file:path" or "file:///path": a local file;
//   - "s3://bucket/key": an S3 object, downloaded in full.
//
// The caller must close the returned reader.
func Open(ctx context.Context, uri string, opts ...Option) (io.ReadCloser, error) {
	o := openOpts{stdin: os.Stdin}
	for _, opt := range opts {
		opt(&o)
	}
	logger := zerolog.Ctx(ctx).With().Str("uri", uri).Logger()
	if uri == "-" {
		logger.Trace().Msg("reading standard input")
		return io.NopCloser(o.stdin), nil
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse URI %#v", uri)
	}
	switch parsed.Scheme {
	case "file", "":
		path := parsed.Path
		if path == "" {
			path = parsed.Opaque
		}
		logger.Trace().Str("path", path).Msg("opening local file")
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "cannot open local file")
		}
		return f, nil
	case "s3":
		return openS3(ctx, logger, parsed, o)
	default:
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%#v", parsed.Scheme)
	}
}

func openS3(
	ctx context.Context, logger zerolog.Logger, parsed *url.URL, o openOpts,
) (io.ReadCloser, error) {
	bucket, key := parsed.Host, strings.TrimPrefix(parsed.Path, "/")
	if bucket == "" || key == "" {
		return nil, errors.Errorf("invalid S3 URI %#v, want s3://bucket/key",
			parsed.String())
	}
	client := o.s3
	if client == nil {
		var loadOpts []func(*config.LoadOptions) error
		if o.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(o.region))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "cannot load AWS config")
		}
		client = s3.NewFromConfig(cfg)
	}
	buf := manager.NewWriteAtBuffer(nil)
	n, err := manager.NewDownloader(client).Download(ctx, buf,
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot download s3://%s/%s", bucket, key)
	}
	logger.Debug().Int64("size", n).Msg("downloaded S3 object")
	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}
