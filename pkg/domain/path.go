package domain

// Path represents a source-to-sink path discovered in a flow network,
// together with the flow pushed along it and its accumulated cost.
type Path struct {
	Nodes  []int64
	Flow   float64
	Cost   float64
	Length float64
}

// ReconstructPath builds a path from source to sink using the parent map
// produced by a shortest-path search (parent[source] = -1).
func ReconstructPath(parent map[int64]int64, source, sink int64) []int64 {
	if _, exists := parent[sink]; !exists {
		return nil
	}

	path := []int64{}
	current := sink

	for current != source {
		path = append([]int64{current}, path...)
		p, exists := parent[current]
		if !exists || p == -1 {
			if current == source {
				break
			}
			return nil
		}
		current = p
	}
	path = append([]int64{source}, path...)

	return path
}
