package facility

import "strings"

// LookupPath recorre un árbol clave/valor siguiendo una ruta con puntos ("supplier.name").
// Devuelve (nil, false) si algún tramo no existe o no es un objeto.
func LookupPath(data map[string]any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	var current any = data
	for _, part := range strings.Split(path, ".") {
		node, ok := asObject(current)
		if !ok {
			return nil, false
		}
		v, exists := node[part]
		if !exists {
			return nil, false
		}
		current = v
	}
	return current, true
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// isPresent: nil y "" cuentan como ausentes; el cero numérico (y false) son valores válidos.
func isPresent(v any, found bool) bool {
	if !found || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}
