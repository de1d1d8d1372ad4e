package report

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/abhisek/aiready/internal/store"
)

var timeType = reflect.TypeOf(time.Time{})

// JSON renders rec as an indented JSON tree. Every timestamp, at any
// depth, is written as RFC 3339 text, and an exported_at field records
// when the export was made.
func (e *Exporter) JSON(rec *store.Diagnosis) ([]byte, error) {
	tree, ok := toTree(reflect.ValueOf(rec)).(map[string]any)
	if !ok {
		return nil, e.fail(FormatJSON, fmt.Errorf("record is not an object"))
	}
	tree["exported_at"] = e.now().Format(time.RFC3339)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return nil, e.fail(FormatJSON, err)
	}
	return buf.Bytes(), nil
}

// toTree converts v into maps, slices and scalars, honouring json struct
// tags. Nil slices become empty lists.
func toTree(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if v.Type() == timeType {
		return v.Interface().(time.Time).Format(time.RFC3339)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return toTree(v.Elem())

	case reflect.Struct:
		out := make(map[string]any)
		addFields(out, v)
		return out

	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = toTree(iter.Value())
		}
		return out

	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = toTree(v.Index(i))
		}
		return out
	}
	return v.Interface()
}

func addFields(out map[string]any, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonName(f)
		if skip {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous && f.Tag.Get("json") == "" && fv.Kind() == reflect.Struct {
			addFields(out, fv)
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		out[name] = toTree(fv)
	}
}

func jsonName(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	for _, o := range strings.Split(opts, ",") {
		if o == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
