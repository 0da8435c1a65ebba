package service

import (
	"io"

	"github.com/khoahotran/profile-pages/internal/domain/page"
)

type PageRenderer interface {
	Render(w io.Writer, v page.View) error
}
