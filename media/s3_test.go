package media

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	deleted string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, "devsearch-media", "https://cdn.example.com/")
	ctx := context.Background()

	if err := store.Put(ctx, "images/x.jpg", "image/jpeg", strings.NewReader("jpeg")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if aws.ToString(client.put.Bucket) != "devsearch-media" || aws.ToString(client.put.Key) != "images/x.jpg" {
		t.Errorf("PutObject input = %+v", client.put)
	}
	if aws.ToString(client.put.ContentType) != "image/jpeg" || client.body != "jpeg" {
		t.Errorf("content type %q body %q", aws.ToString(client.put.ContentType), client.body)
	}

	if err := store.Delete(ctx, "images/x.jpg"); err != nil || client.deleted != "images/x.jpg" {
		t.Errorf("Delete() = %v, deleted %q", err, client.deleted)
	}
	if got := store.URL("images/x.jpg"); got != "https://cdn.example.com/images/x.jpg" {
		t.Errorf("URL() = %q", got)
	}
}
