// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logctl

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// placeholders maps template placeholders to the keyvals they render.
var placeholders = []struct {
	token string
	key   string
}{
	{"{level}", "level"},
	{"{name}", NameKey},
	{"{time}", TimeKey},
	{"{msg}", MsgKey},
}

// templateLogger renders each record through a line template such as
// "{level}:{name}:{time}:{msg}". Keyvals without a placeholder are appended
// as " key=value".
type templateLogger struct {
	w    io.Writer
	tmpl string
}

func newTemplateLogger(w io.Writer, tmpl string) log.Logger {
	return &templateLogger{w: w, tmpl: tmpl}
}

func (t *templateLogger) Log(keyvals ...interface{}) error {
	if len(keyvals)%2 == 1 {
		keyvals = append(keyvals, log.ErrMissingValue)
	}

	values := make(map[string]string, len(placeholders))
	var extra strings.Builder
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		val := render(keyvals[i+1])
		if key == fmt.Sprint(level.Key()) {
			val = strings.ToUpper(val)
		}
		if t.consumes(key) {
			values[key] = val
			continue
		}
		fmt.Fprintf(&extra, " %s=%s", key, val)
	}

	pairs := make([]string, 0, 2*len(placeholders))
	for _, p := range placeholders {
		pairs = append(pairs, p.token, values[p.key])
	}
	line := strings.NewReplacer(pairs...).Replace(t.tmpl) + extra.String() + "\n"

	_, err := io.WriteString(t.w, line)
	return err
}

func (t *templateLogger) consumes(key string) bool {
	for _, p := range placeholders {
		if p.key == key && strings.Contains(t.tmpl, p.token) {
			return true
		}
	}
	return false
}

func render(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
