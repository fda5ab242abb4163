// Package cache provides a size-bounded LRU cache for decoded images.
//
// Entries carry a cost, usually their pixel buffer size in bytes. When the
// total cost exceeds the budget, least recently used entries are evicted
// until it fits again.
//
//	c := cache.New[string, *surface.Bitmap](256<<20)
//	c.Set(digest, bitmap, int64(len(bitmap.Pixels.Pix)))
//	b, ok := c.Get(digest)
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
