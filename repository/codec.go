package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"agrihire-backend/metrics"
	"agrihire-backend/models"
	"agrihire-backend/utils/logger"

	"github.com/tidwall/gjson"
)

// DataQualityReporter receives fields that were stored in a form that can
// no longer be decoded.
type DataQualityReporter func(w models.DataQualityWarning)

// Codec stores multi-valued fields as JSON text. Decoding never fails a
// read: an undecodable value is read as empty and reported.
type Codec struct {
	report DataQualityReporter
}

// NewCodec returns a codec that logs and counts data quality warnings.
func NewCodec(log logger.Logger) *Codec {
	return NewCodecWithReporter(func(w models.DataQualityWarning) {
		log.Warnf("data quality: %s", w)
		metrics.DataQualityWarnings.WithLabelValues(w.Entity, w.Field).Inc()
	})
}

// NewCodecWithReporter returns a codec that hands warnings to report.
func NewCodecWithReporter(report DataQualityReporter) *Codec {
	return &Codec{report: report}
}

// encodeList writes items as a JSON array. A nil list is stored as "[]".
func encodeList[T any](items []T) (string, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

// encodeMap writes m as a JSON object. A nil map is stored as "{}".
func encodeMap[V any](m map[string]V) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode object: %w", err)
	}
	return string(b), nil
}

func decodeList[T any](c *Codec, entity, id, field, raw string) []T {
	out := []T{}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return out
	}
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsArray() {
		c.warn(entity, id, field, fmt.Errorf("not a JSON array: %.40q", raw))
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		c.warn(entity, id, field, err)
		return []T{}
	}
	return out
}

func decodeMap[V any](c *Codec, entity, id, field, raw string) map[string]V {
	out := map[string]V{}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return out
	}
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		c.warn(entity, id, field, fmt.Errorf("not a JSON object: %.40q", raw))
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		c.warn(entity, id, field, err)
		return map[string]V{}
	}
	return out
}

func (c *Codec) warn(entity, id, field string, err error) {
	if c.report != nil {
		c.report(models.DataQualityWarning{Entity: entity, ID: id, Field: field, Err: err})
	}
}

// listEncoder collects the first encoding error across several fields so
// row builders stay linear.
type listEncoder struct {
	err error
}

func (e *listEncoder) strings(items []string) string {
	return e.list(encodeList(items))
}

func (e *listEncoder) list(s string, err error) string {
	if err != nil && e.err == nil {
		e.err = err
	}
	return s
}
