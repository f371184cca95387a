package posts

import (
	"encoding/base64"

	"larryfeed/internal/feed"
)

// Version prefixes every post key. Bumping it logically invalidates
// all previously written posts without deleting them.
const Version = "v1"

// Key derives the cache key for an item's post. It is a pure function
// of (url, id, title): the identity triple is encoded reversibly but
// opaquely, so changing the date, summary or tags never churns the key.
func Key(it feed.Item) string {
	base := it.URL + "|" + it.ID + "|" + it.Title
	return "post:" + Version + ":" + base64.StdEncoding.EncodeToString([]byte(base))
}
