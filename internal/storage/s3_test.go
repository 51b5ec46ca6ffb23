package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putInput  *s3.PutObjectInput
	getOutput *s3.GetObjectOutput
	getErr    error
	deleted   []string
	pages     []*s3.ListObjectsV2Output
	pageIdx   int
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return f.getOutput, f.getErr
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := f.pages[f.pageIdx]
	f.pageIdx++
	return out, nil
}

type fakePresign struct {
	url string
}

func (f fakePresign) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*signedRequest, error) {
	return &signedRequest{URL: fmt.Sprintf("%s/%s?signed", f.url, aws.ToString(in.Key))}, nil
}

func newTestStore(api *fakeS3) *S3Store {
	return &S3Store{
		api:      api,
		presign:  fakePresign{url: "https://bucket.s3.amazonaws.com"},
		bucket:   "bucket",
		uploadNS: "voice_samples",
	}
}

func TestUpload_KeyAndContentType(t *testing.T) {
	api := &fakeS3{}
	store := newTestStore(api)

	result, err := store.Upload(context.Background(), "", "my sample!.json", []byte("audio"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^voice_samples/\d+_[0-9a-f]{8}_my_sample_\.json$`), result.Key)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/"+result.Key, result.URL)
	assert.Equal(t, int64(5), result.Size)
	assert.Contains(t, result.ContentType, "application/json")

	require.NotNil(t, api.putInput)
	assert.Equal(t, "bucket", aws.ToString(api.putInput.Bucket))
	assert.Equal(t, result.Key, aws.ToString(api.putInput.Key))
}

func TestUpload_ExplicitFolder(t *testing.T) {
	store := newTestStore(&fakeS3{})

	result, err := store.Upload(context.Background(), "generated_speech", "out.wav", []byte("x"))
	require.NoError(t, err)
	assert.Regexp(t, `^generated_speech/`, result.Key)
}

func TestDownload(t *testing.T) {
	api := &fakeS3{getOutput: &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader([]byte("payload"))),
		ContentType: aws.String("audio/wav"),
	}}
	store := newTestStore(api)

	obj, err := store.Download(context.Background(), "voice_samples/a.wav")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), obj.Data)
	assert.Equal(t, "audio/wav", obj.ContentType)
}

func TestDownload_Error(t *testing.T) {
	api := &fakeS3{getErr: fmt.Errorf("NoSuchKey")}
	store := newTestStore(api)

	_, err := store.Download(context.Background(), "missing")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	api := &fakeS3{}
	store := newTestStore(api)

	require.NoError(t, store.Delete(context.Background(), "voice_samples/a.wav"))
	assert.Equal(t, []string{"voice_samples/a.wav"}, api.deleted)
}

func TestPresign(t *testing.T) {
	store := newTestStore(&fakeS3{})

	url, err := store.Presign(context.Background(), "voice_samples/a.wav", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/voice_samples/a.wav?signed", url)
}

func TestList_PagesThroughResults(t *testing.T) {
	now := time.Now()
	api := &fakeS3{pages: []*s3.ListObjectsV2Output{
		{
			Contents: []types.Object{
				{Key: aws.String("voice_samples/a.wav"), Size: aws.Int64(10), LastModified: &now},
			},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{
			Contents: []types.Object{
				{Key: aws.String("voice_samples/b.wav"), Size: aws.Int64(20), LastModified: &now},
			},
			IsTruncated: aws.Bool(false),
		},
	}}
	store := newTestStore(api)

	infos, err := store.List(context.Background(), "voice_samples")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "voice_samples/a.wav", infos[0].Key)
	assert.Equal(t, int64(20), infos[1].Size)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/voice_samples/b.wav", infos[1].URL)
}

func TestContentTypeFor_Fallback(t *testing.T) {
	assert.Equal(t, "application/octet-stream", contentTypeFor("file.unknownext123"))
}
