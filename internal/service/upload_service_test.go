package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracemap/internal/config"
	"tracemap/internal/models"
)

type fakePresigner struct {
	lastInput *s3.PutObjectInput
	err       error
}

func (f *fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*V4PresignedRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastInput = in
	return &V4PresignedRequest{URL: "https://bucket.example.com/" + *in.Key + "?signature=abc"}, nil
}

func TestUploadService_PresignUpload(t *testing.T) {
	presigner := &fakePresigner{}
	svc := NewUploadServiceWithPresigner(presigner, "traces-bucket", "https://media.example.com/")
	ctx := context.Background()

	out, err := svc.PresignUpload(ctx, PresignUploadInput{UserID: "u1", ContentType: "image/png"})
	require.NoError(t, err)

	assert.Equal(t, "traces-bucket", *presigner.lastInput.Bucket)
	assert.Equal(t, "image/png", *presigner.lastInput.ContentType)
	assert.True(t, strings.HasPrefix(out.Key, "traces/u1/"))
	assert.True(t, strings.HasSuffix(out.Key, ".png"))
	assert.Equal(t, "https://media.example.com/"+out.Key, out.PublicURL)
	assert.Contains(t, out.UploadURL, out.Key)
	assert.False(t, out.ExpiresAt.IsZero())
}

func TestUploadService_PresignUpload_RejectsNonImages(t *testing.T) {
	svc := NewUploadServiceWithPresigner(&fakePresigner{}, "traces-bucket", "https://media.example.com")

	for _, contentType := range []string{"", "text/html", "application/pdf", "video/mp4"} {
		_, err := svc.PresignUpload(context.Background(), PresignUploadInput{UserID: "u1", ContentType: contentType})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	}
}

func TestNewUploadService_DisabledWithoutBucket(t *testing.T) {
	svc, err := NewUploadService(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, svc)
}
