package cache

// Key builders live in one place so the namespace layout does not
// spread across the codebase.

// ItemsKey names the cached normalized item list of one feed.
func ItemsKey(feedURL string) string {
	return "items:" + feedURL
}

// ETagKey names the stored revalidation token of one feed.
func ETagKey(feedURL string) string {
	return "etag:" + feedURL
}
