package instagram

import "content_metrics/internal/provider"

// mediaResponse is an Instagram Graph API media node with expanded insights.
type mediaResponse struct {
	ID            string    `json:"id"`
	MediaType     string    `json:"media_type"`
	LikeCount     *int64    `json:"like_count"`
	CommentsCount *int64    `json:"comments_count"`
	Timestamp     string    `json:"timestamp"`
	Insights      *insights `json:"insights"`
}

type insights struct {
	Data []insight `json:"data"`
}

type insight struct {
	Name   string         `json:"name"`
	Values []insightValue `json:"values"`
}

type insightValue struct {
	Value int64 `json:"value"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (r *mediaResponse) metric(name string) *int64 {
	if r.Insights == nil {
		return nil
	}
	for _, m := range r.Insights.Data {
		if m.Name == name && len(m.Values) > 0 {
			v := m.Values[0].Value
			return &v
		}
	}
	return nil
}

// counts lists every numeric field of the node, insights included.
func (r *mediaResponse) counts() []provider.Count {
	counts := []provider.Count{
		{Name: "like_count", Value: r.LikeCount},
		{Name: "comments_count", Value: r.CommentsCount},
	}
	if r.Insights == nil {
		return counts
	}
	for _, m := range r.Insights.Data {
		for _, v := range m.Values {
			counts = append(counts, provider.Count{Name: m.Name, Value: &v.Value})
		}
	}
	return counts
}
