// Package errors provides structured error handling for hybridsearch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Catalog and storage errors
//   - 3XX: External service errors (embeddings, relationship store)
//   - 4XX: Query validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryCatalog indicates catalog source and storage errors.
	CategoryCatalog Category = "CATALOG"
	// CategoryExternal indicates errors from external services.
	CategoryExternal Category = "EXTERNAL"
	// CategoryValidation indicates query validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Catalog and storage errors (200-299)
	ErrCodeCatalogUnavailable = "ERR_201_CATALOG_UNAVAILABLE"
	ErrCodeProductNotFound    = "ERR_202_PRODUCT_NOT_FOUND"
	ErrCodeCatalogCorrupt     = "ERR_203_CATALOG_CORRUPT"
	ErrCodeIndexBuildFailed   = "ERR_204_INDEX_BUILD_FAILED"

	// External service errors (300-399)
	ErrCodeEmbeddingTimeout = "ERR_301_EMBEDDING_TIMEOUT"
	ErrCodeEmbeddingFailed  = "ERR_302_EMBEDDING_FAILED"
	ErrCodeGraphUnavailable = "ERR_303_GRAPH_UNAVAILABLE"
	ErrCodeServiceUnhealthy = "ERR_304_SERVICE_UNHEALTHY"

	// Query validation errors (400-499)
	ErrCodeInvalidQuery  = "ERR_401_INVALID_QUERY"
	ErrCodeQueryEmpty    = "ERR_402_QUERY_EMPTY"
	ErrCodeInvalidMode   = "ERR_403_INVALID_MODE"
	ErrCodeInvalidFilter = "ERR_404_INVALID_FILTER"
	ErrCodeInvalidPage   = "ERR_405_INVALID_PAGE"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeSearchFailed = "ERR_502_SEARCH_FAILED"
	ErrCodeFusionFailed = "ERR_503_FUSION_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	numStr := code[4:7]
	if len(numStr) < 1 {
		return CategoryInternal
	}

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryCatalog
	case '3':
		return CategoryExternal
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeCatalogCorrupt:
		return SeverityFatal
	}

	// Retryable external errors get warning severity
	if isRetryableCode(code) {
		return SeverityWarning
	}

	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeEmbeddingTimeout, ErrCodeEmbeddingFailed, ErrCodeGraphUnavailable:
		return true
	default:
		return false
	}
}
