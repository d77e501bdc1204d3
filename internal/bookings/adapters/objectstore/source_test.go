package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeAPI serves one page per entry of pages; failAt makes that page fail.
type fakeAPI struct {
	pages   [][]string
	failAt  int
	objects map[string]string

	listCalls  int
	lastBucket string
}

func (f *fakeAPI) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listCalls++
	f.lastBucket = aws.ToString(in.Bucket)

	idx := 0
	if in.ContinuationToken != nil {
		idx = int((*in.ContinuationToken)[0] - '0')
	}
	if f.failAt > 0 && idx == f.failAt {
		return nil, errors.New("throttled")
	}

	out := &s3.ListObjectsV2Output{}
	for _, k := range f.pages[idx] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if idx+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(string(rune('0' + idx + 1)))
	}
	return out, nil
}

func (f *fakeAPI) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

// ------------------------------------------------------------
// LIST
// ------------------------------------------------------------

func TestSource_ListKeys_AllPages(t *testing.T) {
	api := &fakeAPI{pages: [][]string{
		{"calendly/a.json", "calendly/readme.txt"},
		{"calendly/b.JSON", "calendly/"},
	}}
	src := NewSource(api, "bookings", "calendly/", nil)

	keys, err := src.ListKeys(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.listCalls != 2 {
		t.Fatalf("expected 2 list calls, got %d", api.listCalls)
	}
	if api.lastBucket != "bookings" {
		t.Fatalf("unexpected bucket: %s", api.lastBucket)
	}
	if len(keys) != 2 || keys[0] != "calendly/a.json" || keys[1] != "calendly/b.JSON" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestSource_ListKeys_PartialOnPageError(t *testing.T) {
	api := &fakeAPI{
		pages:  [][]string{{"a.json"}, {"b.json"}},
		failAt: 1,
	}
	src := NewSource(api, "bookings", "", nil)

	keys, err := src.ListKeys(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(keys) != 1 || keys[0] != "a.json" {
		t.Fatalf("expected keys from the first page, got %v", keys)
	}
}

// ------------------------------------------------------------
// FETCH
// ------------------------------------------------------------

func TestSource_FetchObject(t *testing.T) {
	api := &fakeAPI{objects: map[string]string{"a.json": `{"event":"invitee.created"}`}}
	src := NewSource(api, "bookings", "", nil)

	body, err := src.FetchObject(context.Background(), "a.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"event":"invitee.created"}` {
		t.Fatalf("unexpected body: %s", body)
	}

	if _, err := src.FetchObject(context.Background(), "missing.json"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
