package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrStorageDisabled = errors.New("media storage is not configured")

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store keeps public files in an S3 bucket.
type Store struct {
	client    S3API
	bucket    string
	publicURL string
}

// NewStore returns a store; with an empty bucket every upload fails with
// ErrStorageDisabled.
func NewStore(client S3API, bucket, publicURL string) *Store {
	return &Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *Store) Enabled() bool {
	return s != nil && s.client != nil && s.bucket != ""
}

// Put uploads data under key and returns its public URL.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageDisabled
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("media: s3 put %s: %w", key, err)
	}
	return s.url(key), nil
}

func (s *Store) url(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// Avatars turns uploads into stored webp avatars.
type Avatars struct {
	store   *Store
	maxSide int
}

func NewAvatars(store *Store, maxSide int) *Avatars {
	return &Avatars{store: store, maxSide: maxSide}
}

// Upload stores a new avatar for the customer and returns its URL. Every
// upload gets a fresh key so cached copies never go stale.
func (a *Avatars) Upload(ctx context.Context, customerID uint, r io.Reader) (string, error) {
	if !a.store.Enabled() {
		return "", ErrStorageDisabled
	}

	data, err := EncodeAvatar(r, a.maxSide)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%d/%s.webp", customerID, uuid.NewString())
	return a.store.Put(ctx, key, data, "image/webp")
}
