package store

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	pages   [][]string
	objects map[string][]byte
	missing bool
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.missing {
		return nil, &types.NoSuchBucket{}
	}
	page := 0
	if params.ContinuationToken != nil {
		page = int((*params.ContinuationToken)[0] - '0')
	}
	out := &s3.ListObjectsV2Output{}
	for _, key := range f.pages[page] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	if page < len(f.pages)-1 {
		truncated := true
		next := string(rune('0' + page + 1))
		out.IsTruncated = &truncated
		out.NextContinuationToken = &next
	}
	return out, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Store_ListPaginates(t *testing.T) {
	s := &S3Store{
		client: &fakeS3{pages: [][]string{{"a.pdf", "b.txt"}, {"c.md"}}},
		bucket: "docs",
	}
	ids, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.pdf", "b.txt", "c.md"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestS3Store_MissingBucketIsEmpty(t *testing.T) {
	s := &S3Store{client: &fakeS3{missing: true}, bucket: "nope"}
	ids, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("missing bucket should not error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v", ids)
	}
}

func TestS3Store_Get(t *testing.T) {
	s := &S3Store{
		client: &fakeS3{objects: map[string][]byte{"a.txt": []byte("hello")}},
		bucket: "docs",
	}
	data, err := s.Get(context.Background(), "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("Get = %q", data)
	}
	if _, err := s.Get(context.Background(), "missing"); err == nil {
		t.Error("missing object should error")
	}
}
