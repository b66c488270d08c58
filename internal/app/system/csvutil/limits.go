// internal/app/system/csvutil/limits.go
package csvutil

// MaxRows caps the number of data rows a single export may stream.
const MaxRows = 10000
