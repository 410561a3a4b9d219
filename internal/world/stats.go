package world

// Statistics summarises a graph for logs and the stats endpoint.
type Statistics struct {
	Count       int            `json:"count"`
	ByScale     map[string]int `json:"by_scale"`
	ByType      map[string]int `json:"by_type"`
	ByRegion    map[string]int `json:"by_region"`
	Connections int            `json:"connections"`
	Cells       int            `json:"cells"`
	Entities    int            `json:"entities"`
	Fingerprint string         `json:"fingerprint"`
}

// Statistics computes counts over the whole graph.
func (g *Graph) Statistics() Statistics {
	st := Statistics{
		Count:       len(g.locations),
		ByScale:     make(map[string]int, len(g.byScale)),
		ByType:      make(map[string]int, len(g.byType)),
		ByRegion:    make(map[string]int, len(g.byRegion)),
		Fingerprint: g.fingerprint,
	}
	for scale, locs := range g.byScale {
		st.ByScale[scale.String()] = len(locs)
	}
	for typ, locs := range g.byType {
		st.ByType[typ] = len(locs)
	}
	for region, locs := range g.byRegion {
		st.ByRegion[region] = len(locs)
	}
	for _, loc := range g.locations {
		st.Connections += len(loc.Connections)
		st.Cells += len(loc.Tiles)
		st.Entities += loc.Tiles.EntityCount()
	}
	return st
}
