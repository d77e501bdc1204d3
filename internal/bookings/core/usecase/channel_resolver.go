package usecase

import "sort"

// ChannelResolver maps event-type URIs to marketing channels.
type ChannelResolver struct {
	byEventType map[string]string
}

// NewChannelResolver copies mapping (event-type URI -> channel).
func NewChannelResolver(mapping map[string]string) *ChannelResolver {
	m := make(map[string]string, len(mapping))
	for uri, ch := range mapping {
		m[uri] = ch
	}
	return &ChannelResolver{byEventType: m}
}

// Resolve returns nil for unmapped event types.
func (r *ChannelResolver) Resolve(eventTypeURI string) *string {
	ch, ok := r.byEventType[eventTypeURI]
	if !ok {
		return nil
	}
	return &ch
}

func (r *ChannelResolver) EventTypes() []string {
	out := make([]string, 0, len(r.byEventType))
	for uri := range r.byEventType {
		out = append(out, uri)
	}
	sort.Strings(out)
	return out
}
