package ytmusic

import "time"

const (
	platformName = "ytmusic"

	// Origin is the YouTube Music web origin used for SAPISIDHASH and CORS headers.
	Origin = "https://music.youtube.com"

	defaultBaseURL      = "https://music.youtube.com/"
	defaultBackendURL   = "http://127.0.0.1:8000"
	innertubePath       = "youtubei/v1/"
	innertubeQuery      = "?alt=json&prettyPrint=false"
	accountSwitcherPath = "getAccountSwitcherEndpoint"

	endpointAccountsList = "account/accounts_list"
	endpointAccountMenu  = "account/account_menu"

	webRemixClientName    = "WEB_REMIX"
	webRemixClientVersion = "1.20250101.01.00"
	webClientName         = "WEB"
	webClientVersion      = "2.20250101.01.00"

	userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	xssiPrefix = ")]}'"

	channelIDPrefix     = "UC"
	pageTypeUserChannel = "MUSIC_PAGE_TYPE_USER_CHANNEL"

	// likedPlaylistID is the auto-generated "Liked music" playlist; it cannot be edited directly.
	likedPlaylistID = "LM"

	statusSucceeded = "STATUS_SUCCEEDED"

	defaultHeaderFile = "~/.FeelUOwn/data/ytmusic_header.json"
	defaultLanguage   = "zh_CN"
	defaultCountry    = "ZZ"

	// GlobalLimit is the default page size for listings.
	GlobalLimit = 20

	defaultCacheSize = 100
	defaultCacheTTL  = 10 * time.Minute
	defaultTimeout   = 30 * time.Second

	homeSectionLimit = 6
)

// RequiredCookieFields are the cookies a signed-in music.youtube.com session carries.
var RequiredCookieFields = []string{
	"HSID", "SSID", "APISID", "SAPISID", "__Secure-3PAPISID", "LOGIN_INFO",
	"__Secure-1PAPISID", "SID", "__Secure-1PSID", "__Secure-3PSID", "__Secure-3PSIDCC",
}
