// Package metrics defines the custom Prometheus metrics of the photo API.
// All metrics are registered with the default registry at package init via
// promauto; request-level metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "photoapi"

// ── Upload metrics ────────────────────────────────────────────────────────────

// PhotosUploadedTotal counts photo records created by uploads.
var PhotosUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photos_uploaded_total",
		Help:      "Total number of photos stored by upload requests.",
	},
)

// PhotosSkippedTotal counts files skipped because the uploader already had a
// photo with the same original name in the event.
var PhotosSkippedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photos_skipped_total",
		Help:      "Total number of uploaded files skipped as duplicates.",
	},
)

// UploadsRejectedTotal counts upload batches rejected before anything was stored.
// Label:
//   - reason: "no_files", "too_many_files", "file_too_large", "not_an_image",
//     "event_not_found", "invalid_input", "in_progress" or "error"
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of upload requests rejected, by reason.",
	},
	[]string{"reason"},
)

// UploadBatchSize observes the number of files per upload request.
var UploadBatchSize = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_batch_size",
		Help:      "Number of files per upload request.",
		Buckets:   []float64{1, 5, 10, 25, 50, 75, 100},
	},
)

// ── Deletion metrics ──────────────────────────────────────────────────────────

// PhotosDeletedTotal counts photo records removed by deletion requests.
var PhotosDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photos_deleted_total",
		Help:      "Total number of photo records deleted.",
	},
)

// FileRemovalFailuresTotal counts backing files that were missing or could not
// be removed during deletion.
var FileRemovalFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "file_removal_failures_total",
		Help:      "Total number of photo files that could not be removed.",
	},
)
