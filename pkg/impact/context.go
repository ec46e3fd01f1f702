package impact

import (
	"errors"

	"github.com/tidwall/gjson"
)

var ErrInvalidContext = errors.New("invalid operation context")

// ParseOperationContext overlays the fields present in a JSON object such as
// {"gitTracked":true,"references":3,"totalFiles":12} onto base.
func ParseOperationContext(raw string, base OperationContext) (OperationContext, error) {
	if raw == "" {
		return base, nil
	}
	if !gjson.Valid(raw) {
		return base, ErrInvalidContext
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return base, ErrInvalidContext
	}

	c := base
	if v := doc.Get("gitTracked"); v.Exists() {
		c.GitTracked = v.Bool()
	}
	if v := doc.Get("references"); v.Exists() {
		c.References = int(v.Int())
	}
	if v := doc.Get("totalFiles"); v.Exists() {
		c.TotalFiles = int(v.Int())
	}
	return c, nil
}
