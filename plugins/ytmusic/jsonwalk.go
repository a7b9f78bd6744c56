package ytmusic

import (
	"bytes"
	"strings"

	"github.com/valyala/fastjson"
)

var accountItemKeys = []string{"accountItem", "accountItemRenderer"}

// stripXSSI removes the ")]}'" guard music.youtube.com prepends to some
// responses: everything through the first newline, or the bare marker.
func stripXSSI(body []byte) []byte {
	if !bytes.HasPrefix(body, []byte(xssiPrefix)) {
		return body
	}
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		return body[i+1:]
	}
	return body[len(xssiPrefix):]
}

// parseTree parses an upstream body into a fastjson tree.
func parseTree(body []byte) (*fastjson.Value, error) {
	var p fastjson.Parser
	return p.ParseBytes(stripXSSI(body))
}

// findAccountItems collects, depth first and in document order, every object
// stored under an accountItem or accountItemRenderer key.
func findAccountItems(v *fastjson.Value) []*fastjson.Value {
	var items []*fastjson.Value
	walkAccountItems(v, &items)
	return items
}

func walkAccountItems(v *fastjson.Value, items *[]*fastjson.Value) {
	if v == nil {
		return
	}
	switch v.Type() {
	case fastjson.TypeObject:
		for _, key := range accountItemKeys {
			if item := v.Get(key); item != nil && item.Type() == fastjson.TypeObject {
				*items = append(*items, item)
			}
		}
		obj, _ := v.Object()
		obj.Visit(func(_ []byte, child *fastjson.Value) {
			walkAccountItems(child, items)
		})
	case fastjson.TypeArray:
		for _, child := range v.GetArray() {
			walkAccountItems(child, items)
		}
	}
}

// findChannelBrowseID returns the first browseEndpoint.browseId that names a
// user channel, either by the UC prefix or by its music page type.
func findChannelBrowseID(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeObject:
		if ep := v.Get("browseEndpoint"); ep != nil && ep.Type() == fastjson.TypeObject {
			browseID := string(ep.GetStringBytes("browseId"))
			if strings.HasPrefix(browseID, channelIDPrefix) {
				return browseID
			}
			pageType := string(ep.GetStringBytes("browseEndpointContextSupportedConfigs", "browseEndpointContextMusicConfig", "pageType"))
			if pageType == pageTypeUserChannel && browseID != "" {
				return browseID
			}
		}
		var found string
		obj, _ := v.Object()
		obj.Visit(func(_ []byte, child *fastjson.Value) {
			if found == "" {
				found = findChannelBrowseID(child)
			}
		})
		return found
	case fastjson.TypeArray:
		for _, child := range v.GetArray() {
			if found := findChannelBrowseID(child); found != "" {
				return found
			}
		}
	}
	return ""
}

// findObject returns the first object stored under key, depth first.
func findObject(v *fastjson.Value, key string) *fastjson.Value {
	if v == nil {
		return nil
	}
	switch v.Type() {
	case fastjson.TypeObject:
		if hit := v.Get(key); hit != nil && hit.Type() == fastjson.TypeObject {
			return hit
		}
		var found *fastjson.Value
		obj, _ := v.Object()
		obj.Visit(func(_ []byte, child *fastjson.Value) {
			if found == nil {
				found = findObject(child, key)
			}
		})
		return found
	case fastjson.TypeArray:
		for _, child := range v.GetArray() {
			if found := findObject(child, key); found != nil {
				return found
			}
		}
	}
	return nil
}

// extractText reads a text field that is either a plain string, {"runs":[{"text"}]}
// or {"simpleText"}. runs wins over simpleText.
func extractText(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeObject:
		if runs := v.GetArray("runs"); len(runs) > 0 {
			if text := string(runs[0].GetStringBytes("text")); text != "" {
				return text
			}
		}
		return string(v.GetStringBytes("simpleText"))
	}
	return ""
}

// extractDatasyncID returns the leading "||" segment of the response datasync id.
func extractDatasyncID(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	raw := string(v.GetStringBytes("responseContext", "mainAppWebResponseContext", "datasyncId"))
	if raw == "" {
		return ""
	}
	id, _, _ := strings.Cut(raw, "||")
	return id
}

func extractGaiaID(item *fastjson.Value) string {
	if item == nil {
		return ""
	}
	for _, token := range item.GetArray("serviceEndpoint", "selectActiveIdentityEndpoint", "supportedTokens") {
		if id := string(token.GetStringBytes("accountStateToken", "obfuscatedGaiaId")); id != "" {
			return id
		}
	}
	return ""
}

func extractThumbnailURL(photo *fastjson.Value) string {
	if photo == nil {
		return ""
	}
	thumbs := photo.GetArray("thumbnails")
	if len(thumbs) == 0 {
		return ""
	}
	return string(thumbs[0].GetStringBytes("url"))
}

// truthy follows loose JSON truthiness: true, non-zero numbers and non-empty
// strings, arrays and objects.
func truthy(v *fastjson.Value) bool {
	if v == nil {
		return false
	}
	switch v.Type() {
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeNumber:
		return v.GetFloat64() != 0
	case fastjson.TypeString:
		return len(v.GetStringBytes()) > 0
	case fastjson.TypeArray:
		return len(v.GetArray()) > 0
	case fastjson.TypeObject:
		obj, _ := v.Object()
		return obj.Len() > 0
	}
	return false
}
