package media_storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-pages/internal/config"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

func TestAvatarResolver_Cloudinary(t *testing.T) {
	var cfg config.Config
	cfg.Cloudinary.CloudName = "demo"
	cfg.Cloudinary.ApiKey = "key"
	cfg.Cloudinary.ApiSecret = "secret"

	r, err := NewAvatarResolver(cfg, logger.NewNop())
	require.NoError(t, err)

	url := r.AvatarURL("people/alice")
	assert.Contains(t, url, "https://res.cloudinary.com/demo/image/upload/")
	assert.Contains(t, url, avatarTransformation)
	assert.Regexp(t, `people/alice$`, url)

	assert.Equal(t, "https://gravatar.test/a.png", r.AvatarURL("https://gravatar.test/a.png"))
	assert.NotContains(t, url, "?", "delivery urls carry no analytics query")
	assert.Empty(t, r.AvatarURL("data:image/png;base64,AAAA"))
}

func TestAvatarResolver_Unconfigured(t *testing.T) {
	r, err := NewAvatarResolver(config.Config{}, logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "people/alice", r.AvatarURL("people/alice"))
	assert.Equal(t, "https://x.test/a.png", r.AvatarURL("https://x.test/a.png"))
	assert.Empty(t, r.AvatarURL("DATA:image/png;base64,AAAA"))
}
