package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_market/internal/config"
	"github.com/GTDGit/gtd_market/internal/utils"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestNewImageService_Disabled(t *testing.T) {
	svc, err := NewImageService(&config.S3Config{Bucket: "b"})
	require.NoError(t, err)
	assert.Nil(t, svc)

	_, err = svc.UploadProductImage(context.Background(), "shop_1", []byte("x"), "image/png")
	assert.ErrorIs(t, err, utils.ErrImageStorageOff)
}

func TestImageService_UploadProductImage(t *testing.T) {
	putter := &fakePutter{}
	svc := NewImageServiceWithClient(putter, "market-images", "ap-southeast-1", "https://cdn.example.com/")

	url, err := svc.UploadProductImage(context.Background(), "shop_seed_zahra", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	require.NotNil(t, putter.input)
	assert.Equal(t, "market-images", *putter.input.Bucket)
	assert.Equal(t, "image/png", *putter.input.ContentType)
	assert.Regexp(t, `^products/shop_seed_zahra/[0-9a-f-]{36}\.png$`, *putter.input.Key)
	assert.Equal(t, "https://cdn.example.com/"+*putter.input.Key, url)
	assert.Equal(t, []byte("png-bytes"), putter.body)
}

func TestImageService_UploadRejects(t *testing.T) {
	svc := NewImageServiceWithClient(&fakePutter{}, "b", "r", "")
	ctx := context.Background()

	_, err := svc.UploadProductImage(ctx, "shop_1", []byte("gif"), "image/gif")
	assert.Error(t, err)

	_, err = svc.UploadProductImage(ctx, "shop_1", nil, "image/jpeg")
	assert.Error(t, err)

	_, err = svc.UploadProductImage(ctx, "shop_1", make([]byte, MaxProductImageSize+1), "image/jpeg")
	assert.Error(t, err)

	failing := NewImageServiceWithClient(&fakePutter{err: errors.New("access denied")}, "b", "r", "")
	_, err = failing.UploadProductImage(ctx, "shop_1", []byte("x"), "image/webp")
	assert.Error(t, err)
}

func TestImageService_ObjectURL(t *testing.T) {
	svc := NewImageServiceWithClient(&fakePutter{}, "market-images", "ap-southeast-1", "")
	assert.Equal(t, "https://market-images.s3.ap-southeast-1.amazonaws.com/products/a/b.jpg", svc.ObjectURL("products/a/b.jpg"))
}

func TestProductImageKey(t *testing.T) {
	assert.Equal(t, "products/shop_1/abc.jpg", ProductImageKey("shop_1", "abc", ".jpg"))
	assert.Equal(t, "products/etcpasswd/abc.jpg", ProductImageKey("../../etc/passwd", "abc", ".jpg"))
	assert.Equal(t, "products/unassigned/abc.png", ProductImageKey("", "abc", ".png"))
}
