package store

import (
	"encoding/json"
	"strings"
)

// assemble combines the exact node value at a path with its descendant
// nodes (keyed by relative path) into one JSON document, the way a
// realtime tree store materializes a subtree read. Descendants win over
// inline fields with the same key.
func assemble(exact json.RawMessage, children map[string]json.RawMessage) (json.RawMessage, error) {
	if len(children) == 0 {
		if exact == nil {
			return nil, ErrAbsent
		}
		return exact, nil
	}

	root := map[string]any{}
	if exact != nil {
		var parsed any
		if err := json.Unmarshal(exact, &parsed); err != nil {
			return nil, err
		}
		if obj, ok := parsed.(map[string]any); ok {
			root = obj
		}
	}

	for rel, raw := range children {
		segments := strings.Split(rel, "/")
		cursor := root
		for _, seg := range segments[:len(segments)-1] {
			next, ok := cursor[seg].(map[string]any)
			if !ok {
				next = map[string]any{}
				cursor[seg] = next
			}
			cursor = next
		}

		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
		leaf := segments[len(segments)-1]
		if existing, ok := cursor[leaf].(map[string]any); ok {
			if incoming, ok := value.(map[string]any); ok {
				cursor[leaf] = mergeObjects(existing, incoming)
				continue
			}
		}
		cursor[leaf] = value
	}

	return json.Marshal(root)
}

// mergeObjects merges b into a recursively, with b winning on conflicts.
func mergeObjects(a, b map[string]any) map[string]any {
	for key, bv := range b {
		if av, ok := a[key].(map[string]any); ok {
			if bvm, ok := bv.(map[string]any); ok {
				a[key] = mergeObjects(av, bvm)
				continue
			}
		}
		a[key] = bv
	}
	return a
}

// mergeFields applies a partial update to a stored node value.
func mergeFields(existing json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	node := map[string]any{}
	if existing != nil {
		if err := json.Unmarshal(existing, &node); err != nil {
			return nil, err
		}
	}
	for key, value := range fields {
		// Round-trip through JSON so typed values (time.Time, CardMap)
		// land in the node the same way a whole write would store them.
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		var plain any
		if err := json.Unmarshal(raw, &plain); err != nil {
			return nil, err
		}
		node[key] = plain
	}
	return json.Marshal(node)
}

// isUnder reports whether path equals prefix or sits below it on a
// segment boundary.
func isUnder(prefix, path string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
