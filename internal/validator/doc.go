// Package validator turns free-form text typed into the weight fields into committed
// numeric values. Invalid edits never surface as errors to the caller: they are discarded
// and the field falls back to its last committed value.
package validator
