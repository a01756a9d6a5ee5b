// Package metrics defines the canonical metric and tag names emitted by the
// tracking engine and its collaborators.
package metrics

// Engine lifecycle metrics.
const (
	EngineFramesProcessedTotal = "engine_frames_processed_total"
	EngineFrameDurationMs      = "engine_frame_duration_ms"
	EngineActiveTrackers       = "engine_active_trackers"
	EngineSpawnedTrackersTotal = "engine_spawned_trackers_total"
	EngineReapedTrackersTotal  = "engine_reaped_trackers_total"
)

// Distance cache metrics.
const (
	DistCachePrecomputeMs      = "distcache_precompute_ms"
	DistCacheHitsTotal         = "distcache_hits_total"
	DistCacheMissesTotal       = "distcache_misses_total"
	DistCacheEntriesGauge      = "distcache_entries"
	DistCachePrecomputedPairs  = "distcache_precomputed_pairs_total"
)

// Resolver metrics.
const (
	ResolverIterationsTotal   = "resolver_iterations_total"
	ResolverNonProgressTotal  = "resolver_non_progress_total"
	ResolverResolvedTotal     = "resolver_resolved_total"
	ResolverWontResolveTotal  = "resolver_wont_resolve_total"
)

// Word / grapheme packing metrics.
const (
	WordGraphemeTruncationsTotal = "word_grapheme_truncations_total"
	WordPackedTotal              = "word_packed_total"
)

// Digest/hash module metrics.
const (
	DigestOperationsTotalXXH3 = "digest_operations_total_xxh3"
	DigestOperationsTotalSHA  = "digest_operations_total_sha256"
	DigestBytesHashedTotal    = "digest_bytes_hashed_total"
	DigestOperationMs         = "digest_operation_ms"
)

// Graph store (container) metrics.
const (
	GraphStoreSaveMs     = "graphstore_save_ms"
	GraphStoreLoadMs     = "graphstore_load_ms"
	GraphStoreBytesTotal = "graphstore_bytes_total"
)

// Config load metrics.
const (
	ConfigLoadMs     = "config_load_ms"
	ConfigLoadErrors = "config_load_errors"
)

// Metric units.
const (
	UnitCount = "count"
	UnitMs    = "ms"
	UnitBytes = "bytes"
)

// Standard tag keys.
const (
	TagComponent = "component"
	TagOperation = "operation"
	TagAlgorithm = "algorithm"
	TagStatus    = "status"
	TagField     = "field"
)

// Standard tag values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)
