// Package cache keeps decoded audio clips around so that replays and later
// sessions skip decoding. It has an in-memory LRU (L1) and a zstd-compressed
// disk cache (L2).
package cache
