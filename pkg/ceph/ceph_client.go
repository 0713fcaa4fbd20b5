package ceph

import (
	"bytes"
	"errors"
	"net/url"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	log "github.com/sirupsen/logrus"
)

type CephClient struct {
	S3Client   s3iface.S3API
	S3Endpoint string
}

func NewCephClient(cfg *Config) *CephClient {
	s3client := newS3Client(cfg.Region, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.DisableSSL)

	manager := CephClient{S3Client: s3client, S3Endpoint: cfg.Endpoint}
	return &manager
}

func newS3Client(region string, endpoint string, accessKey string, accessSecret string, disableSSL bool) *s3.S3 {
	config := &aws.Config{
		Region:                        aws.String(region),
		Endpoint:                      aws.String(endpoint),
		CredentialsChainVerboseErrors: aws.Bool(true),
		DisableSSL:                    aws.Bool(disableSSL),
		S3ForcePathStyle:              aws.Bool(true),
		Credentials:                   credentials.NewStaticCredentials(accessKey, accessSecret, ""),
		S3Disable100Continue:          aws.Bool(true),
	}
	sess := session.Must(session.NewSession(config))
	return s3.New(sess)
}

// PutEmptyObject creates (or truncates) a zero length object.
func (manager *CephClient) PutEmptyObject(bucket string, objectName string) error {
	_, err := manager.S3Client.PutObject(
		(&s3.PutObjectInput{}).SetBucket(bucket).
			SetKey(objectName).
			SetBody(bytes.NewReader(nil)))
	if err != nil {
		log.Warn("Failed to put object, error: ", err.Error())
		return err
	}
	return nil
}

func (manager *CephClient) DeleteObject(bucket string, objectName string) error {
	_, err := manager.S3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		if !IsNotFound(err) {
			log.Warn("Failed to delete object, error: ", err.Error())
		}
		return err
	}
	return nil
}

// ObjectMetadata returns the user metadata of an object.
func (manager *CephClient) ObjectMetadata(bucket string, objectName string) (map[string]*string, error) {
	output, err := manager.S3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		log.Warn("Failed to head s3 object, error: ", err.Error())
		return nil, err
	}
	if output.Metadata == nil {
		return map[string]*string{}, nil
	}
	return output.Metadata, nil
}

// ReplaceObjectMetadata copies the object onto itself with a new set of
// user metadata.
func (manager *CephClient) ReplaceObjectMetadata(bucket string, objectName string, metadata map[string]*string) error {
	_, err := manager.S3Client.CopyObject(&s3.CopyObjectInput{
		Bucket:            aws.String(bucket),
		Key:               aws.String(objectName),
		CopySource:        aws.String(url.PathEscape(bucket + "/" + objectName)),
		Metadata:          metadata,
		MetadataDirective: aws.String(s3.MetadataDirectiveReplace),
	})
	if err != nil {
		log.Warn("Failed to copy s3 object, error: ", err.Error())
		return err
	}
	return nil
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
