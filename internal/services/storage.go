package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/dquiroga/segundavida/internal/imaging"
)

// objectPrefix is the key prefix for item images inside the bucket.
const objectPrefix = "items/"

// thumbPrefix is the key prefix for generated thumbnail renditions.
const thumbPrefix = "items/thumbs/"

// ImageStore handles S3-compatible storage of item images
type ImageStore struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
}

// ImageFile is one file in an upload batch
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewImageStore creates a new S3 image store. publicURL is the externally
// reachable base of the S3 endpoint (objects resolve under
// publicURL/bucket/key).
func NewImageStore(endpoint, accessKey, secretKey, bucket, region, publicURL string, useSSL bool) (*ImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &ImageStore{
		client:    client,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// UploadImages uploads a batch of images concurrently and returns their
// public URLs in the same order as the input files. Any single failure
// aborts the whole batch; objects already uploaded are left behind and
// swept later by ReconcileOrphans. A downscaled thumbnail rendition is
// stored alongside each image on a best-effort basis.
func (s *ImageStore) UploadImages(ctx context.Context, files []ImageFile) ([]string, error) {
	urls := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			key := s.objectKey(f.Name)

			_, err := s.client.PutObject(gctx, s.bucket, key,
				bytes.NewReader(f.Data), int64(len(f.Data)),
				minio.PutObjectOptions{ContentType: f.ContentType},
			)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", f.Name, err)
			}

			if thumb, err := imaging.Thumbnail(f.Data); err != nil {
				log.Printf("Warning: could not generate thumbnail for %s: %v", f.Name, err)
			} else {
				tk := thumbKey(key)
				_, err := s.client.PutObject(gctx, s.bucket, tk,
					bytes.NewReader(thumb), int64(len(thumb)),
					minio.PutObjectOptions{ContentType: "image/jpeg"},
				)
				if err != nil {
					log.Printf("Warning: could not upload thumbnail %s: %v", tk, err)
				}
			}

			urls[i] = s.PublicURL(key)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// DeleteImage removes the object behind a public image URL, along with its
// thumbnail rendition if one exists.
func (s *ImageStore) DeleteImage(ctx context.Context, imageURL string) error {
	key, err := s.KeyFromURL(imageURL)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	// Thumbnail removal is best-effort: the image may predate thumbnails.
	if tk := thumbKey(key); tk != "" {
		if err := s.client.RemoveObject(ctx, s.bucket, tk, minio.RemoveObjectOptions{}); err != nil {
			log.Printf("Warning: could not delete thumbnail %s: %v", tk, err)
		}
	}

	return nil
}

// objectKey assigns a globally unique storage key for a file, preserving
// the original extension.
func (s *ImageStore) objectKey(filename string) string {
	return objectPrefix + uuid.NewString() + strings.ToLower(path.Ext(filename))
}

// PublicURL returns the publicly fetchable URL for a stored object
func (s *ImageStore) PublicURL(key string) string {
	return s.publicURL + "/" + s.bucket + "/" + key
}

// KeyFromURL parses the storage key out of a public object URL. URLs that
// do not point into this store's bucket are rejected.
func (s *ImageStore) KeyFromURL(imageURL string) (string, error) {
	prefix := s.publicURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(imageURL, prefix) {
		return "", fmt.Errorf("url %q is not served from bucket %q", imageURL, s.bucket)
	}
	key := strings.TrimPrefix(imageURL, prefix)
	if key == "" || !strings.HasPrefix(key, objectPrefix) {
		return "", fmt.Errorf("url %q does not name a stored image", imageURL)
	}
	return key, nil
}

// ThumbnailURL returns the public URL of the thumbnail rendition for an
// image URL, or "" when the URL is not one of ours.
func (s *ImageStore) ThumbnailURL(imageURL string) string {
	key, err := s.KeyFromURL(imageURL)
	if err != nil {
		return ""
	}
	return s.PublicURL(thumbKey(key))
}

// thumbKey derives the thumbnail object key for an image key. Thumbnails
// are always JPEG regardless of the source format.
func thumbKey(key string) string {
	if strings.HasPrefix(key, thumbPrefix) {
		return ""
	}
	base := strings.TrimPrefix(key, objectPrefix)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return thumbPrefix + base + ".jpg"
}
