package wizard

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
)

// Patch applies a JSON object to draft. Fields missing from the body keep
// their values, nested objects are patched field by field, and maps and
// lists present in the body replace the stored ones.
func Patch(draft any, body []byte) error {
	if !gjson.ValidBytes(body) {
		return json.Unmarshal(body, draft)
	}
	clearMaps(reflect.ValueOf(draft), gjson.ParseBytes(body))
	return json.Unmarshal(body, draft)
}

func clearMaps(v reflect.Value, patch gjson.Result) {
	if !patch.IsObject() {
		return
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		sub := patch.Get(gjson.Escape(name))
		if !sub.Exists() {
			continue
		}
		field := v.Field(i)
		switch field.Kind() {
		case reflect.Map:
			field.SetZero()
		case reflect.Struct, reflect.Pointer:
			clearMaps(field, sub)
		}
	}
}
