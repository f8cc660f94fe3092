package normalize

import "adlens/internal/models"

// Media kinds reported by PrimaryMedia.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// Key-alias tables for media resolution. Ordered, first-present-wins.
var (
	snapshotImageKeys = []string{"original_image_url", "original_picture_url", "original_picture", "url", "src"}
	imageKeys         = []string{"imageUrl", "image_url", "thumbnailUrl", "thumbnail_url", "image"}
	videoKeys         = []string{"videoUrl", "video_url", "video"}
	creativeKeys      = []string{"creatives", "media"}
	mediaURLListKeys  = []string{"mediaUrls", "media_urls"}
)

// OriginalImageURL resolves the snapshot's image URL, probing each image
// entry's known key aliases in order.
func OriginalImageURL(raw models.RawRecord) *string {
	snap := Snapshot(raw)
	for _, im := range entries(snap["images"]) {
		if v := firstPresent(im, snapshotImageKeys); v != nil {
			return asString(v)
		}
	}
	return nil
}

// PrimaryMedia picks a single representative media item for the record.
// Fixed priority: snapshot image, direct image keys, direct video keys,
// first creative entry exposing either, first generic media URL (image kind).
// First match wins; remaining candidates are discarded.
func PrimaryMedia(raw models.RawRecord) (kind string, url string) {
	if oi := OriginalImageURL(raw); oi != nil {
		return MediaImage, *oi
	}
	if v := firstPresent(raw, imageKeys); v != nil {
		return MediaImage, stringify(v)
	}
	if v := firstPresent(raw, videoKeys); v != nil {
		return MediaVideo, stringify(v)
	}
	for _, c := range entries(firstPresent(raw, creativeKeys)) {
		if v := firstPresent(c, imageKeys); v != nil {
			return MediaImage, stringify(v)
		}
		if v := firstPresent(c, videoKeys); v != nil {
			return MediaVideo, stringify(v)
		}
	}
	if list, ok := firstPresent(raw, mediaURLListKeys).([]any); ok && len(list) > 0 {
		return MediaImage, stringify(list[0])
	}
	return "", ""
}
