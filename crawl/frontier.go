package crawl

// Frontier is a LIFO work stack of discovered URLs. Pushing a page's links
// in one call keeps their discovery order when they are popped, which gives
// the traversal its depth-first shape without recursion.
//
// Frontier is not safe for concurrent use; the crawl loop owns it.
type Frontier struct {
	stack []string
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{}
}

// Push adds urls so that urls[0] is the next one popped.
func (f *Frontier) Push(urls ...string) {
	for i := len(urls) - 1; i >= 0; i-- {
		f.stack = append(f.stack, urls[i])
	}
}

// Pop removes and returns the most recently pushed URL.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	n := len(f.stack)
	if n == 0 {
		return "", false
	}
	url := f.stack[n-1]
	f.stack[n-1] = ""
	f.stack = f.stack[:n-1]
	return url, true
}

// Len returns the number of URLs waiting in the frontier.
func (f *Frontier) Len() int {
	return len(f.stack)
}
