package decl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ZenLiuCN/lazylink"
)

// ParseOptions parse the option list of //lazylink:bind.
//
//	"z"
//	name = "z"
//	fullname = "libc.so.6"
//	include = "decl/libz.go"
//	include_outdir = "libz.go"
func ParseOptions(s string) (o Options, err error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		var q, v string
		if q, err = strconv.QuotedPrefix(s); err != nil {
			return o, fmt.Errorf("%w: %v", ErrBadOption, err)
		}
		if v, err = strconv.Unquote(q); err != nil {
			return o, fmt.Errorf("%w: %v", ErrBadOption, err)
		}
		o.Identity = lazylink.ShortName(v)
		s = strings.TrimSpace(s[len(q):])
		if s != "" && !strings.HasPrefix(s, ",") {
			return o, fmt.Errorf("%w: expect ',' after %s", ErrBadOption, q)
		}
		s = strings.TrimPrefix(s, ",")
	}
	pairs, err := decodePairs(s)
	if err != nil {
		return
	}
	for _, p := range pairs {
		switch p.key {
		case "name", "fullname":
			if o.Identity.Kind != lazylink.Unresolved {
				return o, ErrIdentityTwice
			}
			if p.key == "name" {
				o.Identity = lazylink.ShortName(p.value)
			} else {
				o.Identity = lazylink.FullName(p.value)
			}
		case "include", "include_outdir":
			if o.Include.Kind != IncludeNone {
				return o, ErrIncludeTwice
			}
			o.Include.Path = p.value
			o.Include.Kind = IncludeRoot
			if p.key == "include_outdir" {
				o.Include.Kind = IncludeOutdir
			}
		default:
			return o, fmt.Errorf("%w: %s", ErrUnknownOption, p.key)
		}
	}
	return
}

// ParseHint parse the arguments of //lazylink:link, keys other than name and kind are ignored.
func ParseHint(s string) (h Hint, err error) {
	pairs, err := decodePairs(s)
	if err != nil {
		return
	}
	for _, p := range pairs {
		switch p.key {
		case "name":
			h.Name = p.value
		case "kind":
			h.Kind = p.value
		}
	}
	return
}

type pair struct {
	key   string
	value string
}

// decodePairs decode `k = "v", ...`, each pair is decoded as a TOML key/value line.
func decodePairs(s string) (pairs []pair, err error) {
	for _, seg := range splitTop(s) {
		var m map[string]any
		var md toml.MetaData
		if md, err = toml.Decode(seg, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadOption, err)
		}
		keys := md.Keys()
		if len(keys) != 1 || len(keys[0]) != 1 {
			return nil, fmt.Errorf("%w: %s", ErrBadOption, seg)
		}
		k := keys[0][0]
		v, ok := m[k].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrBadOption, k)
		}
		pairs = append(pairs, pair{key: k, value: v})
	}
	return
}

// splitTop split s at commas outside of quoted strings, dropping empty segments.
func splitTop(s string) (segs []string) {
	quoted, escaped := false, false
	last := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case escaped:
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			if seg := strings.TrimSpace(s[last:i]); seg != "" {
				segs = append(segs, seg)
			}
			last = i + 1
		}
	}
	if seg := strings.TrimSpace(s[last:]); seg != "" {
		segs = append(segs, seg)
	}
	return
}
