package overlap

import (
	"sync"

	"github.com/mudesheng/oga/asmgraph"
)

// Registry holds the embeddings decided so far. It is shared by the scan
// workers; the first accepted embedding of a sequence is final.
type Registry struct {
	mu     sync.RWMutex
	parent []int // -1 when not embedded
	embs   []asmgraph.Embedding
	num    int
}

func NewRegistry(numSeqs int) *Registry {
	r := &Registry{parent: make([]int, numSeqs), embs: make([]asmgraph.Embedding, numSeqs)}
	for i := range r.parent {
		r.parent[i] = -1
	}
	return r
}

// Add records e unless the child or the parent is already embedded.
func (r *Registry) Add(e asmgraph.Embedding) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parent[e.SeqID] >= 0 || r.parent[e.Parent] >= 0 {
		return false
	}
	r.parent[e.SeqID] = e.Parent
	r.embs[e.SeqID] = e
	r.num++
	return true
}

func (r *Registry) IsEmbedded(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parent[id] >= 0
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.num
}

// Embeddings returns the accepted embeddings ordered by embedded sequence id.
func (r *Registry) Embeddings() []asmgraph.Embedding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l := make([]asmgraph.Embedding, 0, r.num)
	for id, p := range r.parent {
		if p >= 0 {
			l = append(l, r.embs[id])
		}
	}
	return l
}
