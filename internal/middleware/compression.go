package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// uncompressedPaths serve bodies that are already compressed or negotiate
// compression themselves.
var uncompressedPaths = []string{"/metrics"}

// uncompressedExtensions are container formats that gzip cannot shrink.
var uncompressedExtensions = []string{".xlsx", ".pdf", ".png"}

// Compression returns a gzip middleware for plan and catalog responses.
// Allocation results with many shipments compress well; the Prometheus
// endpoint is excluded because promhttp gzips on its own.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths(uncompressedPaths),
		gzip.WithExcludedExtensions(uncompressedExtensions),
	)
}
