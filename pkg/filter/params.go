package filter

import (
	"net/url"
	"strings"

	"github.com/tkchafin/blobtoolkit-pkg/pkg/blobdir"
)

// Params maps field id to its raw parameter assignments, e.g.
// {"gc": {"Min": "0.3", "Max": "0.7"}}
type Params map[string]map[string]string

// validParams lists the accepted parameter names per field type.
// Identifier fields take no parameters.
var validParams = map[blobdir.FieldType][]string{
	blobdir.TypeVariable:   {"Min", "Max", "Inv"},
	blobdir.TypeCategory:   {"Keys", "Inv"},
	blobdir.TypeMultiArray: {"Keys", "MinLength", "MaxLength", "Inv"},
}

// ParseParams turns raw field--Param=value strings, plus the pairs
// extracted from an optional URL query string, into per-field parameter
// maps. Malformed strings and unknown fields or parameters are skipped
// with a warning rather than failing the run.
func ParseParams(raw []string, queryString string, meta *blobdir.Metadata) (Params, *Diagnostics) {
	diags := &Diagnostics{}
	all := append([]string(nil), raw...)
	if queryString != "" {
		all = append(all, splitQueryString(queryString)...)
	}
	params := make(Params)
	for _, s := range all {
		parts := strings.Split(s, "=")
		if len(parts) != 2 {
			diags.Warnf("skipping string '%s', not a valid parameter", s)
			continue
		}
		keyParts := strings.Split(parts[0], "--")
		if len(keyParts) != 2 {
			diags.Warnf("skipping string '%s', not a valid parameter", s)
			continue
		}
		fieldID, param, value := keyParts[0], keyParts[1], parts[1]
		if !meta.HasField(fieldID) {
			diags.Warnf("skipping field '%s', not present in dataset", fieldID)
			continue
		}
		if !paramValid(meta.FieldMeta(fieldID).Type, param) {
			diags.Warnf("'%s' is not a valid parameter for field '%s'", param, fieldID)
			continue
		}
		if params[fieldID] == nil {
			params[fieldID] = make(map[string]string)
		}
		params[fieldID][param] = value
	}
	return params, diags
}

func paramValid(ft blobdir.FieldType, param string) bool {
	for _, p := range validParams[ft] {
		if p == param {
			return true
		}
	}
	return false
}

// splitQueryString extracts param=value pairs from a URL query string:
// everything up to the last '?' and from the first '#' is dropped, the
// rest percent-decoded and split on '&'
func splitQueryString(qstr string) []string {
	if i := strings.LastIndex(qstr, "?"); i >= 0 {
		qstr = qstr[i+1:]
	}
	if i := strings.Index(qstr, "#"); i >= 0 {
		qstr = qstr[:i]
	}
	if decoded, err := url.PathUnescape(qstr); err == nil {
		qstr = decoded
	}
	return strings.Split(qstr, "&")
}
