package media_storage

import (
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-pages/internal/application/service"
	"github.com/khoahotran/profile-pages/internal/config"
	"github.com/khoahotran/profile-pages/pkg/logger"
)

// avatarTransformation crops a square thumbnail around the face.
const avatarTransformation = "c_thumb,g_face,w_96,h_96"

type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

// NewAvatarResolver builds Cloudinary delivery URLs for avatar public IDs.
// Without a configured cloud, avatars are used as stored.
func NewAvatarResolver(cfg config.Config, log logger.Logger) (service.AvatarResolver, error) {
	if cfg.Cloudinary.CloudName == "" {
		log.Warn("Cloudinary cloud_name has not config, avatars are served as stored")
		return passthroughResolver{}, nil
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	// Cached pages embed these URLs; keep them free of per-build query strings.
	cld.Config.URL.Analytics = false

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld, logger: log}, nil
}

func (a *cloudinaryAdapter) AvatarURL(avatar string) string {
	if isInlineData(avatar) {
		return ""
	}
	if isDirectURL(avatar) {
		return avatar
	}

	img, err := a.cld.Image(avatar)
	if err != nil {
		a.logger.Warn("Invalid avatar public id", zap.String("avatar", avatar), zap.Error(err))
		return ""
	}
	img.Transformation = avatarTransformation

	url, err := img.String()
	if err != nil {
		a.logger.Warn("Failed to build avatar url", zap.String("avatar", avatar), zap.Error(err))
		return ""
	}
	return url
}

type passthroughResolver struct{}

func (passthroughResolver) AvatarURL(avatar string) string {
	if isInlineData(avatar) {
		return ""
	}
	return avatar
}

// isDirectURL reports avatars stored as full URLs.
func isDirectURL(avatar string) bool {
	return strings.HasPrefix(avatar, "http://") || strings.HasPrefix(avatar, "https://")
}

// isInlineData reports data: avatars. html/template rejects them in src, so
// they resolve to no URL and the page shows the initial instead.
func isInlineData(avatar string) bool {
	return strings.HasPrefix(strings.ToLower(avatar), "data:")
}
