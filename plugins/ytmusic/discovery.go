package ytmusic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/valyala/fastjson"
)

// AccountItem is one identity found in an account listing.
type AccountItem struct {
	Name          string
	ChannelHandle string
	PhotoURL      string
	ChannelID     string
	// GaiaID is the obfuscated account id used for behalf-of-user scoping.
	GaiaID string
	// Flagged is set when upstream marks the item selected, current or active.
	Flagged bool
}

func accountItemFrom(v *fastjson.Value) AccountItem {
	return AccountItem{
		Name:          extractText(v.Get("accountName")),
		ChannelHandle: extractText(v.Get("channelHandle")),
		PhotoURL:      extractThumbnailURL(v.Get("accountPhoto")),
		ChannelID:     string(v.GetStringBytes("channelId")),
		GaiaID:        extractGaiaID(v),
		Flagged:       truthy(v.Get("isSelected")) || truthy(v.Get("isCurrent")) || truthy(v.Get("isActive")),
	}
}

// Selected reports whether the item is the active identity of the response.
func (i AccountItem) Selected(datasyncID string) bool {
	if i.Flagged {
		return true
	}
	return datasyncID != "" && i.GaiaID == datasyncID
}

func (i AccountItem) Info() AccountInfo {
	return AccountInfo{
		AccountName:     i.Name,
		ChannelHandle:   i.ChannelHandle,
		AccountPhotoURL: i.PhotoURL,
		ChannelID:       i.ChannelID,
		GaiaID:          i.GaiaID,
	}
}

// pickAccountItem chooses the current identity: the forced id first, then a
// self-flagged item, then the datasync id match.
func pickAccountItem(items []AccountItem, datasyncID, forcedID string) *AccountItem {
	if forcedID != "" {
		for i := range items {
			if items[i].GaiaID == forcedID {
				return &items[i]
			}
		}
	}
	for i := range items {
		if items[i].Flagged {
			return &items[i]
		}
	}
	if datasyncID != "" {
		for i := range items {
			if items[i].GaiaID == datasyncID {
				return &items[i]
			}
		}
	}
	return nil
}

type accountSnapshot struct {
	source     string
	items      []AccountItem
	datasyncID string
}

// discoverySource is one way of listing the account items.
type discoverySource struct {
	name  string
	fetch func(ctx context.Context) ([]byte, error)
}

const (
	sourceSwitcher        = "account_switcher"
	sourceAccountsListWeb = "accounts_list/" + webClientName
	sourceAccountsListYTM = "accounts_list/" + webRemixClientName
	sourceAccountMenu     = "account_menu"
)

func (m *ProfileManager) discoverySources() []discoverySource {
	return []discoverySource{
		{name: sourceSwitcher, fetch: func(ctx context.Context) ([]byte, error) {
			return m.session.Get(ctx, accountSwitcherPath, http.Header{"Origin": {Origin}})
		}},
		{name: sourceAccountsListYTM, fetch: func(ctx context.Context) ([]byte, error) {
			return m.session.sendRequestAs(ctx, webRemixClient, endpointAccountsList, nil)
		}},
		{name: sourceAccountsListWeb, fetch: func(ctx context.Context) ([]byte, error) {
			return m.session.sendRequestAs(ctx, webClient, endpointAccountsList, nil)
		}},
	}
}

// discover tries each source in order and returns the first that yields
// account items. No items anywhere gives an empty snapshot; a *DiscoveryError
// is returned only when every source failed.
func (m *ProfileManager) discover(ctx context.Context) (*accountSnapshot, error) {
	sources := m.discoverySources()
	var (
		failed []string
		errs   []error
	)
	for _, src := range sources {
		body, err := src.fetch(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.Unauthorized() {
				return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
			}
			m.logger.Debug("ytmusic: account source failed", "source", src.name, "error", err)
			failed = append(failed, src.name)
			errs = append(errs, fmt.Errorf("%s: %w", src.name, err))
			continue
		}

		tree, err := parseTree(body)
		if err != nil {
			m.logger.Debug("ytmusic: account source returned invalid json", "source", src.name, "error", err)
			failed = append(failed, src.name)
			errs = append(errs, fmt.Errorf("%s: %w", src.name, err))
			continue
		}

		nodes := findAccountItems(tree)
		if len(nodes) == 0 {
			m.logger.Debug("ytmusic: account source has no items", "source", src.name)
			continue
		}
		snap := &accountSnapshot{
			source:     src.name,
			items:      make([]AccountItem, 0, len(nodes)),
			datasyncID: extractDatasyncID(tree),
		}
		for _, node := range nodes {
			snap.items = append(snap.items, accountItemFrom(node))
		}
		return snap, nil
	}

	if len(errs) == len(sources) {
		return nil, newDiscoveryError(failed, errs)
	}
	return &accountSnapshot{}, nil
}

// DiscoverAccountItems returns the account items of the first source that
// lists any, in document order.
func (m *ProfileManager) DiscoverAccountItems(ctx context.Context) ([]AccountItem, error) {
	if !m.session.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	snap, err := m.discover(ctx)
	if err != nil {
		return nil, err
	}
	if snap.items == nil {
		return []AccountItem{}, nil
	}
	return snap.items, nil
}

// accountMenu fetches and parses account/account_menu.
func (m *ProfileManager) accountMenu(ctx context.Context) (*fastjson.Value, error) {
	body, err := m.session.SendRequest(ctx, endpointAccountMenu, nil)
	if err != nil {
		return nil, err
	}
	tree, err := parseTree(body)
	if err != nil {
		return nil, fmt.Errorf("ytmusic: parse account menu: %w", err)
	}
	return tree, nil
}

// menuAccountInfo builds account info from the active account header of the
// account menu.
func menuAccountInfo(tree *fastjson.Value) (AccountInfo, bool) {
	header := findObject(tree, "activeAccountHeaderRenderer")
	if header == nil {
		return AccountInfo{}, false
	}
	info := AccountInfo{
		AccountName:     extractText(header.Get("accountName")),
		ChannelHandle:   extractText(header.Get("channelHandle")),
		AccountPhotoURL: extractThumbnailURL(header.Get("accountPhoto")),
		ChannelID:       findChannelBrowseID(tree),
		GaiaID:          extractDatasyncID(tree),
	}
	if info.AccountName == "" {
		return AccountInfo{}, false
	}
	return info, true
}
