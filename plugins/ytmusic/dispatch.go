package ytmusic

import "encoding/json"

type variantDecoder func(raw []byte) (SearchResultItem, error)

var resultTypeDecoders = map[ResultType]variantDecoder{
	ResultSong:     decodeVariant[SearchSong],
	ResultVideo:    decodeVariant[SearchVideo],
	ResultArtist:   decodeVariant[SearchArtist],
	ResultAlbum:    decodeVariant[SearchAlbum],
	ResultPlaylist: decodeVariant[SearchPlaylist],
}

func decodeVariant[T SearchResultItem](raw []byte) (SearchResultItem, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseSearchResult picks the variant named by raw's resultType and decodes
// into it. Unknown or missing result types, and payloads that are not
// objects, give a SearchBase. It never fails.
func ParseSearchResult(raw []byte) SearchResultItem {
	var base SearchBase
	if err := json.Unmarshal(raw, &base); err != nil {
		return SearchBase{}
	}
	decode, ok := resultTypeDecoders[ResultType(base.ResultType)]
	if !ok {
		return base
	}
	item, err := decode(raw)
	if err != nil {
		return base
	}
	return item
}

// ParseSearchResults dispatches every element of a JSON array. A payload
// that is not an array gives no results.
func ParseSearchResults(raw []byte) []SearchResultItem {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil
	}
	items := make([]SearchResultItem, 0, len(raws))
	for _, r := range raws {
		items = append(items, ParseSearchResult(r))
	}
	return items
}
