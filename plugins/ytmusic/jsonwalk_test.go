package ytmusic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripXSSI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"with newline", ")]}'\n{\"a\":1}", `{"a":1}`},
		{"bare marker", `)]}'{"a":1}`, `{"a":1}`},
		{"no prefix", `{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(stripXSSI([]byte(tt.in))))
		})
	}
}

func TestFindAccountItems_DepthFirstOrder(t *testing.T) {
	tree, err := parseTree([]byte(`)]}'
{"actions":[
  {"sections":[{"accountItem":{"accountName":"first","nested":{"accountItemRenderer":{"accountName":"second"}}}}]},
  {"accountItemRenderer":{"accountName":"third"}},
  {"accountItem":"not an object"}
]}`))
	require.NoError(t, err)

	items := findAccountItems(tree)
	require.Len(t, items, 3)
	assert.Equal(t, "first", extractText(items[0].Get("accountName")))
	assert.Equal(t, "second", extractText(items[1].Get("accountName")))
	assert.Equal(t, "third", extractText(items[2].Get("accountName")))
}

func TestFindAccountItems_None(t *testing.T) {
	tree, err := parseTree([]byte(`{"responseContext":{},"items":[1,2,"x"]}`))
	require.NoError(t, err)
	assert.Empty(t, findAccountItems(tree))
	assert.Empty(t, findAccountItems(nil))
}

func TestFindChannelBrowseID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "uc prefix",
			body: `{"a":[{"browseEndpoint":{"browseId":"FEmusic_home"}},{"x":{"browseEndpoint":{"browseId":"UCabc"}}}]}`,
			want: "UCabc",
		},
		{
			name: "page type",
			body: `{"browseEndpoint":{"browseId":"MPchannel","browseEndpointContextSupportedConfigs":{"browseEndpointContextMusicConfig":{"pageType":"MUSIC_PAGE_TYPE_USER_CHANNEL"}}}}`,
			want: "MPchannel",
		},
		{
			name: "first match wins",
			body: `[{"browseEndpoint":{"browseId":"UCfirst"}},{"browseEndpoint":{"browseId":"UCsecond"}}]`,
			want: "UCfirst",
		},
		{
			name: "none",
			body: `{"browseEndpoint":{"browseId":"FEmusic_library"}}`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := parseTree([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, findChannelBrowseID(tree))
		})
	}
}

func TestExtractText(t *testing.T) {
	tree, err := parseTree([]byte(`{
  "plain":"Plain",
  "runs":{"runs":[{"text":"Run"},{"text":"ignored"}],"simpleText":"Simple"},
  "emptyRuns":{"runs":[],"simpleText":"Simple"},
  "simple":{"simpleText":"Only"},
  "number":5
}`))
	require.NoError(t, err)

	assert.Equal(t, "Plain", extractText(tree.Get("plain")))
	assert.Equal(t, "Run", extractText(tree.Get("runs")))
	assert.Equal(t, "Simple", extractText(tree.Get("emptyRuns")))
	assert.Equal(t, "Only", extractText(tree.Get("simple")))
	assert.Equal(t, "", extractText(tree.Get("number")))
	assert.Equal(t, "", extractText(tree.Get("missing")))
}

func TestExtractIDs(t *testing.T) {
	tree, err := parseTree([]byte(`{
  "responseContext":{"mainAppWebResponseContext":{"datasyncId":"g-1||g-0"}},
  "item":{
    "accountPhoto":{"thumbnails":[{"url":"small.jpg"},{"url":"big.jpg"}]},
    "serviceEndpoint":{"selectActiveIdentityEndpoint":{"supportedTokens":[
      {"offlineCacheKeyToken":{}},
      {"accountStateToken":{"obfuscatedGaiaId":"g-1"}}
    ]}}
  }
}`))
	require.NoError(t, err)

	assert.Equal(t, "g-1", extractDatasyncID(tree))
	assert.Equal(t, "g-1", extractGaiaID(tree.Get("item")))
	assert.Equal(t, "small.jpg", extractThumbnailURL(tree.Get("item", "accountPhoto")))
	assert.Equal(t, "", extractGaiaID(tree))
	assert.Equal(t, "", extractDatasyncID(tree.Get("item")))
}

func TestTruthy(t *testing.T) {
	tree, err := parseTree([]byte(`{"t":true,"f":false,"one":1,"zero":0,"s":"x","e":"","a":[1],"ea":[],"o":{"k":1},"eo":{},"n":null}`))
	require.NoError(t, err)

	for _, key := range []string{"t", "one", "s", "a", "o"} {
		assert.True(t, truthy(tree.Get(key)), key)
	}
	for _, key := range []string{"f", "zero", "e", "ea", "eo", "n", "missing"} {
		assert.False(t, truthy(tree.Get(key)), key)
	}
}
