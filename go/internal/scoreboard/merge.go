package scoreboard

// remoteRowKey is the container some remote sources wrap the fields in.
const remoteRowKey = "row"

// ApplyLocalUpdate overlays the allow-listed keys of payload onto a copy of
// current. Values are copied verbatim, including null; other keys are dropped.
func ApplyLocalUpdate(current Record, payload map[string]any) Record {
	next := current.Clone()
	for key, value := range payload {
		if !IsAllowed(key) {
			continue
		}
		next[key] = value
	}
	return next
}

// ExtractRemoteState pulls the recognised, non-null fields out of a decoded
// remote document. A "row" object, when present, is unwrapped first. It
// returns nil when nothing applicable was found.
func ExtractRemoteState(raw any) Record {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return nil
	}

	payload := obj
	if row, ok := obj[remoteRowKey].(map[string]any); ok && row != nil {
		payload = row
	}

	extracted := make(Record)
	for _, f := range Fields {
		if v, ok := payload[f]; ok && v != nil {
			extracted[f] = v
		}
	}
	if len(extracted) == 0 {
		return nil
	}
	return extracted
}

// ApplyRemoteSnapshot overlays the fields extracted from raw onto a copy of
// current. The boolean is false when raw carries no applicable data, in which
// case the returned record is nil. Whether the result differs from current is
// left to the caller.
func ApplyRemoteSnapshot(current Record, raw any) (Record, bool) {
	extracted := ExtractRemoteState(raw)
	if extracted == nil {
		return nil, false
	}

	next := current.Clone()
	for k, v := range extracted {
		next[k] = v
	}
	return next, true
}
