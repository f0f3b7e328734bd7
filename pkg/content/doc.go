// Package content caches per-node content payloads and preloads them in the
// background.
//
// # Cache
//
// [Cache.Get] resolves a node id in this order:
//
//  1. a fetch for the id is already in flight: wait for and share it
//  2. the id is cached: record a hit, refresh its access time, return it
//  3. otherwise: record a miss, fetch from the [Source], store, return
//
// Concurrent Get calls for the same uncached id therefore cause exactly one
// Source fetch (golang.org/x/sync/singleflight). A caller whose context is
// cancelled stops waiting, but the fetch itself runs to completion and
// still populates the cache.
//
// [Cache.Set] stamps the entry and runs [Cache.Cleanup] when the entry
// count exceeds the maximum or the cleanup interval (five minutes by
// default) has passed. Cleanup evicts least recently accessed entries first
// until the count is back at the maximum. The cache is the only owner of
// its payloads; eviction drops them.
//
// # Preload
//
// [Cache.Preload] queues ids that are neither cached nor already queued. A
// single background drain takes the queue in batches of BatchSize, fetches
// each batch concurrently (golang.org/x/sync/errgroup), removes each id as
// its fetch settles, and sleeps BatchDelay between batches. Failures are
// logged as PRELOAD_ERROR and never retried or propagated.
//
// # Sources
//
//   - [HTTPSource]: GET {base}/{id} returning a JSON [Payload]
//   - [RedisSource]: one Redis hash per node
//   - [FSSource]: {id}.html and optional {id}.css files in an fs.FS
//   - [SourceFunc]: adapter for plain functions
package content
