package store

import (
	"encoding/base64"
	"fmt"
	"strings"
	"syscall"

	"github.com/aws/aws-sdk-go/aws"

	"xattrtest/pkg/ceph"
)

// ObjectStore maps files onto objects in a single bucket and attributes
// onto their user metadata. Values are base64 encoded since metadata
// travels as HTTP headers.
type ObjectStore struct {
	client *ceph.CephClient
	bucket string
}

func NewObjectStore(client *ceph.CephClient, bucket string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket}
}

func objectKey(name string) string {
	return strings.TrimLeft(name, "/")
}

// lookupMetadata finds attr in metadata. S3 canonicalizes header names, so
// the comparison ignores case.
func lookupMetadata(metadata map[string]*string, attr string) (string, *string) {
	for k, v := range metadata {
		if strings.EqualFold(k, attr) {
			return k, v
		}
	}
	return "", nil
}

func (s *ObjectStore) Create(name string) error {
	if err := s.Remove(name); err != nil {
		return err
	}
	if err := s.client.PutEmptyObject(s.bucket, objectKey(name)); err != nil {
		return fmt.Errorf("put(%s/%s): %w", s.bucket, objectKey(name), err)
	}
	return nil
}

func (s *ObjectStore) Remove(name string) error {
	err := s.client.DeleteObject(s.bucket, objectKey(name))
	if err != nil && !ceph.IsNotFound(err) {
		return fmt.Errorf("delete(%s/%s): %w", s.bucket, objectKey(name), err)
	}
	return nil
}

func (s *ObjectStore) SetXattr(name string, attr string, value []byte) error {
	key := objectKey(name)
	metadata, err := s.client.ObjectMetadata(s.bucket, key)
	if err != nil {
		return fmt.Errorf("head(%s/%s): %w", s.bucket, key, err)
	}
	if existing, _ := lookupMetadata(metadata, attr); existing != "" {
		delete(metadata, existing)
	}
	metadata[attr] = aws.String(base64.StdEncoding.EncodeToString(value))
	if err := s.client.ReplaceObjectMetadata(s.bucket, key, metadata); err != nil {
		return fmt.Errorf("copy(%s/%s, %s, ..., %d): %w", s.bucket, key, attr, len(value), err)
	}
	return nil
}

func (s *ObjectStore) GetXattr(name string, attr string, dest []byte) (int, error) {
	key := objectKey(name)
	metadata, err := s.client.ObjectMetadata(s.bucket, key)
	if err != nil {
		return 0, fmt.Errorf("head(%s/%s): %w", s.bucket, key, err)
	}
	_, encoded := lookupMetadata(metadata, attr)
	if encoded == nil {
		return 0, fmt.Errorf("head(%s/%s, %s): %w", s.bucket, key, attr, syscall.ENODATA)
	}
	value, err := base64.StdEncoding.DecodeString(*encoded)
	if err != nil {
		return 0, fmt.Errorf("decode(%s/%s, %s): %w", s.bucket, key, attr, err)
	}
	if len(value) > len(dest) {
		return 0, fmt.Errorf("head(%s/%s, %s, ..., %d): %w", s.bucket, key, attr, len(dest), syscall.ERANGE)
	}
	return copy(dest, value), nil
}
