// This file implements AttachmentService: presigned S3 uploads and downloads
// for task attachments. The server never proxies file bytes; clients talk to
// object storage directly with short-lived URLs.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	sc "github.com/Francortiz-137/taskflow-backend/internal/server/config"
	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
	"github.com/Francortiz-137/taskflow-backend/internal/server/repositories/repomanager"
)

// Seams for testing the AWS SDK wiring.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// presignValidity is how long issued upload/download URLs stay usable.
const presignValidity = 15 * time.Minute

// UploadGrant is a created attachment record plus the URL the client PUTs
// the file bytes to.
type UploadGrant struct {
	Attachment *models.Attachment
	UploadURL  string
}

type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewAttachmentService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// GetRandomStorageKey returns a date-partitioned object key for a new upload.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// RequestUpload verifies that the user owns the task, records a pending
// attachment, and returns a presigned PUT URL for the file bytes.
func (s *AttachmentService) RequestUpload(ctx context.Context, userID, taskID int64, fileName string) (*UploadGrant, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, common.ErrorValidation
	}

	// ownership check; other users' tasks read as absent
	if _, err := s.repomanager.Tasks(s.db).GetByID(ctx, userID, taskID); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		ID:           uuid.NewString(),
		TaskID:       taskID,
		UserID:       userID,
		FileName:     fileName,
		StorageKey:   key,
		UploadStatus: models.UploadPending,
	}
	if err := s.repomanager.Attachments(s.db).Create(ctx, attachment); err != nil {
		return nil, err
	}

	return &UploadGrant{Attachment: attachment, UploadURL: req.URL}, nil
}

// MarkUploaded records that the client finished PUTting the file bytes.
func (s *AttachmentService) MarkUploaded(ctx context.Context, userID int64, id string) error {
	return s.repomanager.Attachments(s.db).MarkUploaded(ctx, userID, id)
}

// DownloadURL returns a presigned GET URL for an uploaded attachment.
func (s *AttachmentService) DownloadURL(ctx context.Context, userID int64, id string) (string, error) {
	attachment, err := s.repomanager.Attachments(s.db).GetByID(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if attachment.UploadStatus != models.UploadDone {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &attachment.StorageKey,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
