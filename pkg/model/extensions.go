package model

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

const (
	extensionNamespace       = "x-formgen"
	measurementTypeExtension = "x-measurement-type"
)

// Metadata and UI hint keys understood by the bundled widgets.
const (
	MetaMeasurementType = "measurementType"
	MetaMultipleOf      = "multipleOf"

	HintWidget          = "widget"
	HintMeasurementType = "measurementType"
	HintPlaceholder     = "placeholder"
	HintHelpText        = "helpText"
	HintStep            = "step"
	HintIcon            = "icon"
	HintUnit            = "unit"
	HintRows            = "rows"
	HintClass           = "cssClass"
	HintHideLabel       = "hideLabel"
)

var (
	uiHintKeys = []string{
		HintClass,
		HintHelpText,
		HintHideLabel,
		HintIcon,
		HintMeasurementType,
		"label",
		HintPlaceholder,
		"precision",
		HintRows,
		HintStep,
		HintUnit,
		HintWidget,
	}

	uiHintKeySet = func(keys []string) map[string]struct{} {
		result := make(map[string]struct{}, len(keys))
		for _, key := range keys {
			result[key] = struct{}{}
		}
		return result
	}(uiHintKeys)
)

// AllowedUIHintKeys returns a sorted copy of the recognised UI hint keys.
func AllowedUIHintKeys() []string {
	keys := append([]string(nil), uiHintKeys...)
	sort.Strings(keys)
	return keys
}

// IsAllowedUIHintKey reports whether key participates in the UI hint contract.
func IsAllowedUIHintKey(key string) bool {
	_, ok := uiHintKeySet[key]
	return ok
}

// ParseExtensions extracts metadata and UI hints from schema extensions. Both
// the nested `x-formgen: {...}` form and flattened `x-formgen-key` entries are
// accepted. `x-measurement-type` maps to the measurementType metadata key.
// Nil maps are returned when nothing recognised is present.
func ParseExtensions(ext map[string]any) (map[string]string, map[string]string) {
	if len(ext) == 0 {
		return nil, nil
	}

	metadata := make(map[string]string)
	for key, value := range ext {
		switch {
		case key == extensionNamespace:
			nested, ok := value.(map[string]any)
			if !ok {
				continue
			}
			for nestedKey, nestedValue := range nested {
				if str, ok := CanonicalizeExtensionValue(nestedValue); ok {
					metadata[nestedKey] = str
				}
			}
		case strings.HasPrefix(key, extensionNamespace+"-"):
			if str, ok := CanonicalizeExtensionValue(value); ok {
				metadata[strings.TrimPrefix(key, extensionNamespace+"-")] = str
			}
		case key == measurementTypeExtension:
			if str, ok := CanonicalizeExtensionValue(value); ok {
				metadata[MetaMeasurementType] = str
			}
		}
	}

	if len(metadata) == 0 {
		return nil, nil
	}

	var hints map[string]string
	for key, value := range metadata {
		if !IsAllowedUIHintKey(key) {
			continue
		}
		if hints == nil {
			hints = make(map[string]string)
		}
		hints[key] = value
	}
	return metadata, hints
}

// CanonicalizeExtensionValue turns extension values into renderer-friendly
// strings. Returns false when the value cannot be represented deterministically.
func CanonicalizeExtensionValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return "", false
		}
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 64), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), v.String() != ""
	case map[string]any, []any:
		payload, err := json.Marshal(v)
		if err != nil || string(payload) == "{}" || string(payload) == "[]" {
			return "", false
		}
		return string(payload), true
	default:
		return "", false
	}
}

// MergeHints copies src into dst, overwriting existing keys. dst is allocated
// when nil and returned.
func MergeHints(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
