// Package cycle answers whether a candidate causal edge would close a cycle
// in the directed graph formed by an existing edge snapshot.
package cycle

import "github.com/agenthands/causalgraph/internal/core/model"

// DefaultMaxDepth bounds a single search. Hitting it is reported through
// Result.Truncated rather than as an error.
const DefaultMaxDepth = 100

type Result struct {
	Found bool
	// Path starts and ends at the candidate trigger when Found is set.
	Path []string
	// Truncated is set when at least one branch was abandoned at the depth cap,
	// so a negative answer is not conclusive.
	Truncated bool
}

// Detect reports whether adding triggerID -> resultID to links would create a cycle.
// A cycle exists iff resultID already reaches triggerID.
func Detect(triggerID, resultID string, links []model.Link, maxDepth int) Result {
	if triggerID == resultID {
		return Result{Found: true, Path: []string{triggerID, triggerID}}
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	adj := buildAdjacency(links, model.Link{TriggerID: triggerID, ResultID: resultID})

	s := &search{
		adj:      adj,
		target:   triggerID,
		maxDepth: maxDepth,
		visited:  make(map[string]bool),
	}
	if s.dfs(resultID, 0) {
		path := make([]string, 0, len(s.path)+1)
		path = append(path, triggerID)
		path = append(path, s.path...)
		return Result{Found: true, Path: path, Truncated: s.truncated}
	}
	return Result{Truncated: s.truncated}
}

// DetectCausalCycle is the two-value form of Detect. The path is nil when no
// cycle was found.
func DetectCausalCycle(triggerID, resultID string, links []model.Link, maxDepth int) (bool, []string) {
	r := Detect(triggerID, resultID, links, maxDepth)
	if !r.Found {
		return false, nil
	}
	return true, r.Path
}

type search struct {
	adj       map[string][]string
	target    string
	maxDepth  int
	visited   map[string]bool
	path      []string
	truncated bool
}

func (s *search) dfs(u string, depth int) bool {
	if depth > s.maxDepth {
		s.truncated = true
		return false
	}
	if s.visited[u] {
		return false
	}
	s.visited[u] = true
	s.path = append(s.path, u)

	if u == s.target {
		return true
	}
	for _, v := range s.adj[u] {
		if s.dfs(v, depth+1) {
			return true
		}
	}

	s.path = s.path[:len(s.path)-1]
	return false
}

// buildAdjacency keeps neighbours in snapshot order so searches are deterministic.
// Duplicate edges are collapsed.
func buildAdjacency(links []model.Link, candidate model.Link) map[string][]string {
	adj := make(map[string][]string)
	seen := make(map[model.Link]bool, len(links)+1)

	add := func(l model.Link) {
		if seen[l] {
			return
		}
		seen[l] = true
		adj[l.TriggerID] = append(adj[l.TriggerID], l.ResultID)
	}

	for _, l := range links {
		add(l)
	}
	add(candidate)
	return adj
}
