package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannerKey(t *testing.T) {
	assert.Equal(t, "banners/ev-1/poster.png", BannerKey("ev-1", "poster.png"))
	// path components are stripped from the filename
	assert.Equal(t, "banners/ev-1/poster.png", BannerKey("ev-1", "../../poster.png"))
}

func TestKeyFromPublicURL(t *testing.T) {
	s := &S3{cfg: S3Config{Region: "ap-south-1", BannersBucket: "eventhub-banners"}}

	key, ok := s.KeyFromPublicURL("eventhub-banners",
		"https://eventhub-banners.s3.ap-south-1.amazonaws.com/banners/ev-1/poster.png")
	require.True(t, ok)
	assert.Equal(t, "banners/ev-1/poster.png", key)

	_, ok = s.KeyFromPublicURL("eventhub-banners", "https://cdn.example.com/poster.png")
	assert.False(t, ok)

	_, ok = s.KeyFromPublicURL("eventhub-banners",
		"https://other-bucket.s3.ap-south-1.amazonaws.com/banners/ev-1/poster.png")
	assert.False(t, ok)

	_, ok = s.KeyFromPublicURL("eventhub-banners",
		"https://eventhub-banners.s3.ap-south-1.amazonaws.com/")
	assert.False(t, ok)
}

func TestValidateBannerFileType(t *testing.T) {
	assert.True(t, ValidateBannerFileType("image/png", "poster.png"))
	assert.True(t, ValidateBannerFileType("", "poster.webp"))
	assert.True(t, ValidateBannerFileType("image/jpeg", "noext"))
	assert.False(t, ValidateBannerFileType("application/pdf", "poster.pdf"))
	assert.False(t, ValidateBannerFileType("", ""))
}
