package config

// DeepMerge merges b over a and returns a new map. Nested mappings present
// on both sides merge recursively; any other value in b, lists included,
// replaces a's value wholesale. Keys holding null in b are ignored.
// Neither input is modified.
func DeepMerge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, bv := range b {
		if bv == nil {
			continue
		}
		bm, bIsMap := bv.(map[string]any)
		am, aIsMap := out[k].(map[string]any)
		if bIsMap && aIsMap {
			out[k] = DeepMerge(am, bm)
			continue
		}
		out[k] = bv
	}
	return out
}
