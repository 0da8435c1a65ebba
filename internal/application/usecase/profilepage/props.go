package profilepage

import (
	"context"
	"strings"
	"time"

	"github.com/khoahotran/profile-pages/pkg/apperror"
	"github.com/khoahotran/profile-pages/pkg/query"
)

// Props is the server-side state handed to a page before it renders.
type Props struct {
	TRPCState  query.DehydratedState `json:"trpcState"`
	User       string                `json:"user"`
	Revalidate time.Duration         `json:"-"`
}

type PropsLoader struct {
	fetcher    *Fetcher
	revalidate time.Duration
}

func NewPropsLoader(fetcher *Fetcher, revalidate time.Duration) *PropsLoader {
	return &PropsLoader{fetcher: fetcher, revalidate: revalidate}
}

type LoadPropsInput struct {
	Username string
}

func (uc *PropsLoader) Execute(_ context.Context, input LoadPropsInput) (*Props, error) {
	if strings.TrimSpace(input.Username) == "" {
		return nil, apperror.NewInvalidInput("route parameter 'user' is required", nil)
	}

	state, err := uc.fetcher.Snapshot(input.Username)
	if err != nil {
		return nil, apperror.NewInternal("failed to dehydrate query state", err)
	}

	return &Props{
		TRPCState:  state,
		User:       input.Username,
		Revalidate: uc.revalidate,
	}, nil
}
