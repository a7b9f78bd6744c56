package ytmusic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/liuran001/MusicHost-Go/host"
	"github.com/liuran001/MusicHost-Go/host/platform"
)

// AccountInfo describes the identity requests are currently made as.
type AccountInfo struct {
	AccountName     string `json:"accountName"`
	ChannelHandle   string `json:"channelHandle"`
	AccountPhotoURL string `json:"accountPhotoUrl"`
	ChannelID       string `json:"channelId"`
	GaiaID          string `json:"gaiaId,omitempty"`
}

// Profile converts the info into the host model.
func (a AccountInfo) Profile(selected bool) platform.Profile {
	return platform.Profile{
		AccountName:     a.AccountName,
		ChannelHandle:   a.ChannelHandle,
		AccountPhotoURL: a.AccountPhotoURL,
		ChannelID:       a.ChannelID,
		GaiaID:          a.GaiaID,
		IsSelected:      selected,
	}
}

// ProfileManager lists the identities reachable through one cookie and
// scopes the session to one of them.
type ProfileManager struct {
	session    *Session
	logger     host.Logger
	invalidate func()

	mu       sync.Mutex
	forcedID string
	override *AccountInfo
}

// NewProfileManager creates a manager for session. invalidate, when set, is
// called after every scope change so account-scoped caches can be dropped.
func NewProfileManager(session *Session, logger host.Logger, invalidate func()) *ProfileManager {
	if logger == nil {
		logger = host.NopLogger{}
	}
	return &ProfileManager{
		session:    session,
		logger:     logger,
		invalidate: invalidate,
	}
}

// ListProfiles returns every item that has both a name and a channel handle.
// Finding no items is not an error.
func (m *ProfileManager) ListProfiles(ctx context.Context) ([]platform.Profile, error) {
	if !m.session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	snap, err := m.discover(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]platform.Profile, 0, len(snap.items))
	for _, item := range snap.items {
		if item.Name == "" || item.ChannelHandle == "" {
			continue
		}
		profiles = append(profiles, item.Info().Profile(item.Selected(snap.datasyncID)))
	}
	return profiles, nil
}

// CurrentAccountInfo returns the pinned profile after a switch, or discovers
// the active one.
func (m *ProfileManager) CurrentAccountInfo(ctx context.Context) (*AccountInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked(ctx)
}

func (m *ProfileManager) currentLocked(ctx context.Context) (*AccountInfo, error) {
	if !m.session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if m.override != nil {
		info := *m.override
		return &info, nil
	}

	snap, discErr := m.discover(ctx)
	if discErr != nil && !isDiscoveryError(discErr) {
		return nil, discErr
	}
	if snap != nil {
		if item := pickAccountItem(snap.items, snap.datasyncID, m.forcedID); item != nil && item.Name != "" {
			info := item.Info()
			if info.ChannelID == "" {
				info.ChannelID = m.menuChannelID(ctx)
			}
			return &info, nil
		}
	}

	tree, menuErr := m.accountMenu(ctx)
	if menuErr == nil {
		if info, ok := menuAccountInfo(tree); ok {
			if info.GaiaID == "" {
				info.GaiaID = m.forcedID
			}
			return &info, nil
		}
	} else {
		var statusErr *StatusError
		if errors.As(menuErr, &statusErr) && statusErr.Unauthorized() {
			return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, menuErr)
		}
		m.logger.Debug("ytmusic: account menu failed", "error", menuErr)
	}

	var de *DiscoveryError
	if errors.As(discErr, &de) && menuErr != nil {
		return nil, newDiscoveryError(append(de.Sources, sourceAccountMenu), []error{de.Err, menuErr})
	}
	return nil, ErrNoAccountInfo
}

// SwitchProfile scopes the session to the profile with the given gaia id, or
// failing that the given exact name. Both empty resets to the primary account.
// An unknown profile, or one without an account id, leaves the current scope
// untouched.
func (m *ProfileManager) SwitchProfile(ctx context.Context, name, gaiaID string) (*AccountInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if name == "" && gaiaID == "" {
		m.session.SetOnBehalfOfUser("")
		m.forcedID = ""
		m.override = nil
		m.purge()
		m.logger.Info("ytmusic: profile reset to primary account")
		return m.currentLocked(ctx)
	}

	snap, err := m.discover(ctx)
	if err != nil {
		return nil, err
	}
	var selected *AccountItem
	for i := range snap.items {
		item := &snap.items[i]
		if gaiaID != "" && item.GaiaID == gaiaID {
			selected = item
			break
		}
		if gaiaID == "" && item.Name == name {
			selected = item
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("%w: name=%q gaia_id=%q", ErrProfileNotFound, name, gaiaID)
	}
	if selected.GaiaID == "" {
		m.logger.Warn("ytmusic: profile has no account id, not switching", "name", selected.Name)
		return nil, fmt.Errorf("%w: %q has no account id", ErrProfileNotFound, selected.Name)
	}

	info := selected.Info()
	m.session.SetOnBehalfOfUser(info.GaiaID)
	if info.ChannelID == "" {
		info.ChannelID = m.menuChannelID(ctx)
	}
	m.forcedID = info.GaiaID
	m.override = &info
	m.purge()
	m.logger.Info("ytmusic: profile switched", "name", info.AccountName, "handle", info.ChannelHandle)

	out := info
	return &out, nil
}

// Scoped reports whether a profile other than the primary account is pinned.
func (m *ProfileManager) Scoped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.override != nil
}

func (m *ProfileManager) menuChannelID(ctx context.Context) string {
	tree, err := m.accountMenu(ctx)
	if err != nil {
		m.logger.Debug("ytmusic: channel id lookup failed", "error", err)
		return ""
	}
	return findChannelBrowseID(tree)
}

func (m *ProfileManager) purge() {
	if m.invalidate != nil {
		m.invalidate()
	}
}

func isDiscoveryError(err error) bool {
	var de *DiscoveryError
	return errors.As(err, &de)
}
