package hulu

import "huludl/enums"

// deepMerge copies src into dst. Nested maps are merged key by key, any
// other value in src replaces the one in dst.
func deepMerge(dst map[string]any, src map[string]any) map[string]any {
	for key, srcValue := range src {
		srcMap, srcIsMap := srcValue.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = deepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcValue)
	}
	return dst
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// LegacyAudioParams builds the extra legacy playlist parameters that pick
// the audio codecs: AAC always, EC3 unless force2ch.
func LegacyAudioParams(force2ch bool) map[string]any {
	codecs := []any{
		map[string]any{"type": string(enums.AudioCodecAAC)},
	}
	if !force2ch {
		codecs = append(codecs, map[string]any{"type": string(enums.AudioCodecEC3)})
	}
	return map[string]any{
		"playback": map[string]any{
			"audio": map[string]any{
				"codecs": map[string]any{
					"values": codecs,
				},
			},
		},
	}
}
