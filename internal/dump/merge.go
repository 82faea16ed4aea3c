// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dump

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log/level"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ParseError reports an existing object that is not a JSON object.
type ParseError struct {
	Object string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing existing object %s: %v", e.Object, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// readExisting returns the parsed object stored at name, or found=false if
// there is none.
func (d *Dumper) readExisting(ctx context.Context, name string) (map[string]any, bool, error) {
	rc, err := d.bkt.Get(ctx, name)
	if err != nil {
		if d.bkt.IsObjNotFoundErr(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", name, err)
	}

	var existing map[string]any
	if err := unmarshal(data, &existing); err != nil {
		return nil, false, &ParseError{Object: name, Err: err}
	}
	if existing == nil {
		return nil, false, &ParseError{Object: name, Err: errors.New("top level is null")}
	}
	return existing, true, nil
}

// merge folds the chunk into existing. It returns ok=false when the value
// already stored under the key is not an array.
func (d *Dumper) merge(existing map[string]any, j job) (map[string]any, bool, error) {
	old, present := existing[j.key]
	if !present {
		if d.cfg.DiscardForeignKeys {
			dropped := maps.Keys(existing)
			slices.Sort(dropped)
			level.Warn(d.logger).Log(
				"msg", "merge target lacks chunk key, rewriting it with only that key",
				"object", j.object,
				"key", j.key,
				"dropped_keys", strings.Join(dropped, ","),
			)
			return map[string]any{j.key: j.chunk.Value}, true, nil
		}
		existing[j.key] = j.chunk.Value
		return existing, true, nil
	}

	list, isList := old.([]any)
	if !isList {
		level.Error(d.logger).Log(
			"msg", "merge refused, existing value is not an array",
			"object", j.object,
			"key", j.key,
			"existing_type", jsonType(old),
		)
		return nil, false, nil
	}

	add, err := normalize(j.chunk.Value)
	if err != nil {
		return nil, false, fmt.Errorf("normalizing chunk %s: %w", j.label, err)
	}
	if items, ok := add.([]any); ok {
		list = append(list, items...)
	} else {
		list = append(list, add)
	}
	existing[j.key] = list
	return existing, true, nil
}

// normalize round-trips v through JSON so typed values such as []types.Row
// take the shape of decoded JSON, with numbers as json.Number.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// unmarshal decodes exactly one JSON value from data. Numbers are kept as
// json.Number so integers beyond float64 precision are rewritten unchanged.
func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if rest := bytes.TrimSpace(data[dec.InputOffset():]); len(rest) > 0 {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

// encode renders doc as JSON without HTML escaping. A negative indent gives
// compact output; otherwise each nesting level is indented by that many
// spaces. The result ends with a newline.
func encode(doc any, indent int) ([]byte, error) {
	var compact bytes.Buffer
	enc := json.NewEncoder(&compact)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if indent < 0 {
		return compact.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimRight(compact.Bytes(), "\n"), "", strings.Repeat(" ", indent)); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
