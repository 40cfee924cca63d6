package view

import "sync"

// Region is a rendering target whose whole content is replaced on every set.
type Region interface {
	Set(content string)
}

// Targets are the two regions belonging to one lane.
type Targets struct {
	Content Region
	Counter Region
}

// MemoryRegion keeps the last content set on it.
type MemoryRegion struct {
	mu      sync.Mutex
	content string
	sets    int
}

// Set implements Region.
func (r *MemoryRegion) Set(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = content
	r.sets++
}

// Content returns the current content.
func (r *MemoryRegion) Content() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.content
}

// Sets returns how many times the region was redrawn.
func (r *MemoryRegion) Sets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sets
}
