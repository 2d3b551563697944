package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// ReconcileOrphans deletes stored image objects that no item references.
// Two flows can leave orphans behind: a batch upload that fails partway,
// and item deletion (which intentionally does not cascade into storage).
// Objects younger than grace are kept so an in-flight create is never raced.
// referencedURLs are the public URLs currently held by item rows. Returns
// the number of objects removed.
func (s *ImageStore) ReconcileOrphans(ctx context.Context, referencedURLs []string, grace time.Duration) (int, error) {
	referenced := make(map[string]bool, len(referencedURLs))
	for _, u := range referencedURLs {
		key, err := s.KeyFromURL(u)
		if err != nil {
			// A row pointing outside our bucket is not ours to clean up.
			log.Printf("Warning: skipping unrecognized image url %q: %v", u, err)
			continue
		}
		referenced[key] = true
		if tk := thumbKey(key); tk != "" {
			referenced[tk] = true
		}
	}

	cutoff := time.Now().Add(-grace)
	removed := 0

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    objectPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return removed, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		if !strings.HasPrefix(obj.Key, objectPrefix) {
			continue
		}
		if referenced[obj.Key] {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}

		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			log.Printf("Warning: failed to remove orphaned object %s: %v", obj.Key, err)
			continue
		}
		removed++
	}

	return removed, nil
}
