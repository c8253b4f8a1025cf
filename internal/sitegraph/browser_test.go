package sitegraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrowserFetcherValidatesBeforeLaunch(t *testing.T) {
	f := NewBrowserFetcher("", 0, 0)
	defer f.Close()

	_, err := f.FetchPage(context.Background(), "")
	assert.Error(t, err)
}

func TestBrowserFetcherClosed(t *testing.T) {
	f := NewBrowserFetcher("", 0, 0)
	f.Close()
	f.Close()

	_, err := f.FetchPage(context.Background(), "https://acme.test")
	assert.EqualError(t, err, "browser fetcher is closed")
}
