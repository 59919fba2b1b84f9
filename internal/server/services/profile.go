package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
	sc "github.com/dmitrijs2005/profilekeeper/internal/server/config"
	"github.com/dmitrijs2005/profilekeeper/internal/server/models"
	"github.com/dmitrijs2005/profilekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/profilekeeper/internal/snowflake"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignedURLValidity = 15 * time.Minute

// AddImageResult describes a stored profile image: its snowflake id and a
// presigned URL the client can fetch it from.
type AddImageResult struct {
	ProfileID int64
	URL       string
}

// ProfileService manages profile images: database records through the
// repositories, image bytes through S3-compatible object storage.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	idgen       *snowflake.Generator
	config      *sc.Config
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, idgen *snowflake.Generator, cfg *sc.Config) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		idgen:       idgen,
		config:      cfg,
	}
}

// StorageKey returns the object key for one profile image. The snowflake
// ids of the owner and the image fully determine the key.
func StorageKey(userID, profileID int64) string {
	return fmt.Sprintf("avatars/%d/%d", userID, profileID)
}

func (s *ProfileService) getS3Client() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func (s *ProfileService) upload(ctx context.Context, key, contentType string, data []byte) error {
	client, err := s.getS3Client()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})

	return err
}

// ImageURL returns a presigned GET URL for an already-stored profile image.
func (s *ProfileService) ImageURL(ctx context.Context, userID, profileID int64) (string, error) {
	client, err := s.getS3Client()
	if err != nil {
		return "", err
	}

	presignClient := newS3PresignClient(client)

	bucket := s.config.S3Bucket
	key := StorageKey(userID, profileID)

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignedURLValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// AddImage stores a new profile image for userID. The database record is
// inserted in a transaction and the object upload happens before commit, so
// a failed upload rolls the record back and never leaves a dangling row.
func (s *ProfileService) AddImage(ctx context.Context, userID int64, contentType string, data []byte) (*AddImageResult, error) {
	id, err := s.idgen.Generate()
	if err != nil {
		return nil, fmt.Errorf("error generating profile id: %w", err)
	}

	profile := &models.Profile{ID: id.Int64(), UserID: userID}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Profiles(tx).Create(ctx, profile); err != nil {
			return err
		}
		return s.upload(ctx, StorageKey(userID, profile.ID), contentType, data)
	})
	if err != nil {
		return nil, fmt.Errorf("error storing image: %w", err)
	}

	url, err := s.ImageURL(ctx, userID, profile.ID)
	if err != nil {
		// The image is stored; only the convenience URL failed.
		return &AddImageResult{ProfileID: profile.ID}, nil
	}

	return &AddImageResult{ProfileID: profile.ID, URL: url}, nil
}

// ListImages returns the ids of all images owned by userID.
func (s *ProfileService) ListImages(ctx context.Context, userID int64) ([]int64, error) {
	return s.repomanager.Profiles(s.db).ListIDsByUser(ctx, userID)
}

// SetActive makes profileID the subject's active photo after verifying
// ownership. A missing or foreign profile id yields common.ErrorNotFound.
func (s *ProfileService) SetActive(ctx context.Context, userID, profileID int64) error {
	if _, err := s.repomanager.Profiles(s.db).Get(ctx, profileID, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	return s.repomanager.Users(s.db).SetActivePhoto(ctx, userID, profileID)
}
