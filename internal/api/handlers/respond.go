package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"reflect"

	"github.com/wonny/finhealth/backend/internal/analysis"
	"github.com/wonny/finhealth/backend/internal/contracts"
)

// Helper functions

// respondJSON writes data as JSON. NaN and ±Inf are rendered as null.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := marshalFinite(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusForError maps domain errors onto HTTP status codes
// ⭐ SSOT: 도메인 에러 → HTTP 상태 코드 매핑은 여기서만
func statusForError(err error) int {
	var integrityErr *contracts.DataIntegrityError
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrTickerNotFound):
		return http.StatusNotFound
	case errors.As(err, &integrityErr):
		return http.StatusInternalServerError
	case contracts.IsProviderUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// marshalFinite encodes data; on an unsupported float it scrubs NaN/±Inf
// in place and encodes again
func marshalFinite(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(data)
	if err == nil {
		return buf.Bytes(), nil
	}

	var unsupported *json.UnsupportedValueError
	if !errors.As(err, &unsupported) {
		return nil, err
	}

	holder := reflect.ValueOf(&data).Elem()
	scrubNonFinite(holder)

	buf.Reset()
	if err := json.NewEncoder(&buf).Encode(holder.Interface()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// scrubNonFinite nils non-finite *float64 and interface values, and zeroes
// non-finite plain floats that cannot be null
func scrubNonFinite(v reflect.Value) {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return
		}
		elem := v.Elem()
		if (elem.Kind() == reflect.Float64 || elem.Kind() == reflect.Float32) && nonFinite(elem.Float()) {
			if v.CanSet() {
				v.Set(reflect.Zero(v.Type()))
			}
			return
		}
		if elem.Kind() == reflect.Ptr || elem.Kind() == reflect.Map || elem.Kind() == reflect.Slice {
			scrubNonFinite(elem)
		}

	case reflect.Ptr:
		if v.IsNil() {
			return
		}
		elem := v.Elem()
		if (elem.Kind() == reflect.Float64 || elem.Kind() == reflect.Float32) && nonFinite(elem.Float()) {
			if v.CanSet() {
				v.Set(reflect.Zero(v.Type()))
			} else {
				elem.SetFloat(0)
			}
			return
		}
		scrubNonFinite(elem)

	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				scrubNonFinite(v.Field(i))
			}
		}

	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			scrubNonFinite(v.Index(i))
		}

	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			val := iter.Value()
			if val.Kind() == reflect.Interface && !val.IsNil() {
				inner := val.Elem()
				if (inner.Kind() == reflect.Float64 || inner.Kind() == reflect.Float32) && nonFinite(inner.Float()) {
					v.SetMapIndex(iter.Key(), reflect.Zero(val.Type()))
					continue
				}
			}
			cp := reflect.New(val.Type()).Elem()
			cp.Set(val)
			scrubNonFinite(cp)
			v.SetMapIndex(iter.Key(), cp)
		}

	case reflect.Float32, reflect.Float64:
		if v.CanSet() && nonFinite(v.Float()) {
			v.SetFloat(0)
		}
	}
}
