package s3

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(context.Background(), Options{
		Endpoint:  "https://r2.example.com",
		Region:    "auto",
		Bucket:    "novelia",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		PathStyle: true,
	})
	require.NoError(t, err)
	return c
}

func TestPresignGet_CarriesExpiryAndDisposition(t *testing.T) {
	c := newTestClient(t)

	raw, err := c.PresignGet(context.Background(), "books/pdfs/river-1.pdf", time.Hour, "The River Between.pdf")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "3600", q.Get("X-Amz-Expires"))
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
	assert.NotEmpty(t, q.Get("X-Amz-Date"))
	assert.Contains(t, q.Get("response-content-disposition"), "attachment")
	assert.Contains(t, q.Get("response-content-disposition"), "The River Between.pdf")
	assert.True(t, strings.HasSuffix(u.Path, "/novelia/books/pdfs/river-1.pdf"), u.Path)
	assert.NotContains(t, raw, "wJalrXUtnFEMI")
}

func TestPresignGet_NoFilename(t *testing.T) {
	c := newTestClient(t)

	raw, err := c.PresignGet(context.Background(), "books/pdfs/a.pdf", 5*time.Minute, "")
	require.NoError(t, err)
	assert.NotContains(t, raw, "response-content-disposition")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}
