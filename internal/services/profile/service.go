package profile

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bloxpanel/bloxpanel/internal/dependencies/clock"
	"github.com/bloxpanel/bloxpanel/internal/model"
	"github.com/bloxpanel/bloxpanel/internal/roblox"
)

// Thumbnail parameters the dashboard renders with
const (
	headshotSize = "150x150"
	bustSize     = "420x420"
)

// PlatformClient is the slice of the Roblox client the aggregator needs
type PlatformClient interface {
	ResolveUsername(ctx context.Context, username string) (int64, error)
	FetchProfile(ctx context.Context, platformID int64) (*model.PlatformUser, error)
	FetchFriendsCount(ctx context.Context, platformID int64) (int, error)
	FetchAvatar(ctx context.Context, platformID int64, variant roblox.AvatarVariant, size string, circular bool) (string, error)
}

// Service aggregates a user profile from the independent Roblox endpoints
type Service struct {
	platform PlatformClient
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new profile aggregation service
func New(platform PlatformClient, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		platform: platform,
		clock:    clk,
		logger:   logger,
	}
}

// Lookup resolves a username and assembles its profile. Resolution failure
// is the only top-level error; once the platform id is known, the
// remaining fetches run concurrently and each failure only blanks its own
// field, so the returned record is always structurally complete.
func (s *Service) Lookup(ctx context.Context, username string) (*model.Profile, error) {
	platformID, err := s.platform.ResolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var (
		user     *model.PlatformUser
		friends  int
		headshot string
		bust     string

		userErr, friendsErr, headshotErr, bustErr error
	)

	// Fan out the independent fetches and join; each goroutine writes
	// only its own slot.
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		user, userErr = s.platform.FetchProfile(ctx, platformID)
	}()
	go func() {
		defer wg.Done()
		friends, friendsErr = s.platform.FetchFriendsCount(ctx, platformID)
	}()
	go func() {
		defer wg.Done()
		headshot, headshotErr = s.platform.FetchAvatar(ctx, platformID, roblox.AvatarHeadshot, headshotSize, true)
	}()
	go func() {
		defer wg.Done()
		bust, bustErr = s.platform.FetchAvatar(ctx, platformID, roblox.AvatarBust, bustSize, false)
	}()
	wg.Wait()

	p := &model.Profile{
		PlatformID: platformID,
		Username:   username,
	}

	if userErr == nil {
		if user.Username != "" {
			p.Username = user.Username
		}
		p.DisplayName = user.DisplayName
		p.Description = user.Description
		p.Created = user.Created

		if created := roblox.ParseTimestamp(user.Created); !created.IsZero() {
			p.CreatedAt = created
			age := roblox.AccountAgeDays(created, s.clock.Now().UTC())
			p.AccountAgeDays = &age
		}
	} else {
		s.logFetchFailure("profile", username, userErr)
	}

	if friendsErr == nil {
		p.FriendsCount = &friends
	} else {
		s.logFetchFailure("friends count", username, friendsErr)
	}

	if headshotErr == nil {
		p.AvatarURL = headshot
	} else {
		s.logFetchFailure("avatar headshot", username, headshotErr)
	}

	if bustErr == nil {
		p.AvatarBustURL = bust
	} else {
		s.logFetchFailure("avatar bust", username, bustErr)
	}

	return p, nil
}

func (s *Service) logFetchFailure(field, username string, err error) {
	s.logger.Warn("profile sub-fetch failed",
		slog.String("field", field),
		slog.String("username", username),
		slog.String("error", err.Error()),
	)
}
